package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/mechshop/internal/store"
)

// AllocationError reports a failure to compute the next identifier for an
// entity class. It always wraps the underlying storage error; allocation
// never silently falls back to a value that could collide.
type AllocationError struct {
	Table string
	Err   error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate id for %s: %v", e.Table, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// IsAllocationError reports whether err is (or wraps) an AllocationError.
func IsAllocationError(err error) bool {
	var ae *AllocationError
	return errors.As(err, &ae)
}

// NextID computes the next unique identifier for the given table:
// current max + 1, or 1 when the table is empty. Identifiers are strictly
// increasing within an entity class and a retired id is never reused.
//
// Callers must invoke NextID inside the same transaction as the insert it
// keys. Two sessions computing max+1 concurrently would collide; running
// allocate-and-insert as one transactional unit closes that window while
// keeping the observable max-derived numbering.
func NextID(ctx context.Context, q store.Querier, table, idColumn string) (int, error) {
	max, err := q.CurrentMax(ctx, table, idColumn)
	if err != nil {
		return 0, &AllocationError{Table: table, Err: err}
	}
	return max + 1, nil
}
