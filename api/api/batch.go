/* batch.go
 * Fans a per-participant mutation out across every stored entry. Batch
 * mutations never stop at the first failure: every participant is attempted
 * and the ones whose writes did not land are reported back by id.
 */

package api

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"bracket-bot/api/store"
)

// maxConcurrentWrites bounds the fan-out so a large pool does not open one
// Mongo operation per participant at once.
const maxConcurrentWrites = 8

// forEachEntry applies fn to every entry concurrently and collects the
// outcome. Failures are logged and recorded, never propagated mid-batch, so
// one participant's bad write cannot strand the rest.
func (a *API) forEachEntry(entries []store.EntryRecord, fn func(store.EntryRecord) error) BatchResult {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		res BatchResult
	)
	g.SetLimit(maxConcurrentWrites)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			err := fn(entry)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("entry update failed for %s: %v", entry.UserId, err)
				res.Failed = append(res.Failed, entry.UserId)
				return nil
			}
			res.Succeeded++
			return nil
		})
	}
	g.Wait()

	sort.Strings(res.Failed)
	return res
}

// Err reports the batch as an error when any participant failed. The result
// itself still carries the full outcome either way.
func (r BatchResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d participant updates failed: %w",
		len(r.Failed), r.Succeeded+len(r.Failed), ErrPartialFailure)
}
