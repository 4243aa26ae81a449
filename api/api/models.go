/* models.go
 * This file contains the interfaces, structs and sentinel errors that are
 * used by api consumers
 */

package api

import "errors"

var (
	// ErrMissingOfficial is returned when an operation needs the official
	// bracket and the tournament has not been set up yet.
	ErrMissingOfficial = errors.New("no official bracket exists, run setup first")

	// ErrNoEntry is returned when a participant has no stored bracket yet.
	ErrNoEntry = errors.New("no bracket entry exists for this participant")

	// ErrPartialFailure marks a batch mutation that completed for some
	// participants but not all. The BatchResult alongside it says which.
	ErrPartialFailure = errors.New("some participant updates failed")
)

// BatchResult reports the outcome of a mutation fanned out across every
// participant entry. Failed holds the user ids whose writes did not land,
// sorted for stable output.
type BatchResult struct {
	Succeeded int
	Failed    []string
}
