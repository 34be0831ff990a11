package storage

import (
	"context"
	"sort"
)

// Pruner is implemented by stores that keep sequential history files and
// can discard old ones. Stores with provider-managed history (SSM, native
// bucket versioning) do not implement it.
type Pruner interface {
	// Prune removes history versions of the parameter so that only the
	// keep newest remain. The latest object always survives. Returns the
	// locations that were removed.
	Prune(ctx context.Context, name string, keep int) ([]string, error)
}

// VersionsToPrune returns the sequential versions to drop so only the
// keep newest remain, oldest first. A keep below one prunes nothing, so
// a bad call can never wipe the whole history.
func VersionsToPrune(versions []int, keep int) []int {
	if keep < 1 || len(versions) <= keep {
		return nil
	}
	sorted := append([]int(nil), versions...)
	sort.Ints(sorted)
	return sorted[:len(sorted)-keep]
}
