// Package masterdata holds the plumbing shared by every master-data entity.
//
// Master records (machines today) are stored as a mutable primary row plus an
// append-only history row. This package owns the parts of that pattern that do
// not depend on the entity's fields:
//
//   - Status: collapses the stored tri-state is_deleted flag into Active/Deleted
//   - Query: the three supported lookup predicates
//   - Error: the stable-code error taxonomy returned to callers
//   - Entity: retrieval (query, filter, map, envelope) and dual-write creation
//
// # Error Kinds
//
//	┌──────────────────┬─────────────────────────────────────────────────┐
//	│ Kind             │ Raised when                                     │
//	├──────────────────┼─────────────────────────────────────────────────┤
//	│ FetchFailure     │ the store failed while reading                  │
//	│ NotFound         │ the read succeeded with zero active rows        │
//	│ InsertFailure    │ either creation write failed                    │
//	│ InvalidInput     │ a caller value failed a structural precondition │
//	└──────────────────┴─────────────────────────────────────────────────┘
//
// NotFound and FetchFailure are never merged: an empty result is an answer,
// a failed query is not.
//
// # Usage
//
//	entity := masterdata.Entity[machine.Machine, machine.View]{
//	    Name:    "machine",
//	    Codes:   machine.ErrorCodes,
//	    Deleted: func(m machine.Machine) *bool { return m.IsDeleted },
//	    View:    machine.ToView,
//	}
//	env, err := entity.Fetch(ctx, func(ctx context.Context) ([]machine.Machine, error) {
//	    return store.FindAllActive(ctx)
//	})
//	if errors.Is(err, masterdata.ErrNotFound) {
//	    // no active machines
//	}
package masterdata
