/* snapshot.go
 * Whole-tournament export and import as JSON: the official bracket, the
 * scoring overrides and every participant entry travel together so a pool
 * can be backed up, moved between databases or restored after a bad edit.
 */

package api

import (
	"encoding/json"
	"fmt"
	"io"

	"bracket-bot/api/scoring"
	"bracket-bot/api/store"
)

// Snapshot is the portable JSON form of a whole tournament.
type Snapshot struct {
	Tournament string               `json:"tournament"`
	Official   store.OfficialRecord `json:"official"`
	Config     scoring.ConfigRecord `json:"config"`
	Entries    []store.EntryRecord  `json:"entries"`
}

// ExportSnapshot writes the whole tournament to w as indented JSON.
// Preconditions: Receives the writer to stream the snapshot to
// Postconditions: The snapshot holds the official record, the sparse scoring
// overrides (not the resolved scheme) and every entry, or an error is
// returned and the writer may have received partial output
func (a *API) ExportSnapshot(w io.Writer) error {
	official, err := a.official()
	if err != nil {
		return err
	}

	cfg, err := a.Store.GetScoringConfig()
	if err != nil {
		return err
	}

	entries, err := a.Store.GetAllEntries()
	if err != nil {
		return err
	}

	snap := Snapshot{
		Tournament: a.Store.GetTournament(),
		Official:   official,
		Config:     cfg.Config,
		Entries:    entries,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ImportSnapshot restores a tournament from r into the active tournament
// key. Trees are validated before anything is written: a snapshot with a
// broken official tree is rejected whole, while individual broken entries
// are skipped and reported in the batch outcome so the rest still land.
// Re-importing the same snapshot is safe since every write is an upsert.
func (a *API) ImportSnapshot(r io.Reader) (BatchResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return BatchResult{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := snap.Official.Roster.Validate(); err != nil {
		return BatchResult{}, fmt.Errorf("roster in snapshot is invalid: %w", err)
	}
	if err := snap.Official.Bracket.Validate(); err != nil {
		return BatchResult{}, fmt.Errorf("official bracket in snapshot is invalid: %w", err)
	}

	if err := a.Store.StoreOfficialBracket(snap.Official); err != nil {
		return BatchResult{}, fmt.Errorf("failed to store official bracket: %w", err)
	}
	if err := a.Store.StoreScoringConfig(snap.Config); err != nil {
		return BatchResult{}, fmt.Errorf("failed to store scoring config: %w", err)
	}

	res := a.forEachEntry(snap.Entries, func(entry store.EntryRecord) error {
		if err := entry.Bracket.Validate(); err != nil {
			return err
		}
		return a.Store.StoreEntry(entry.UserId, entry)
	})
	return res, res.Err()
}
