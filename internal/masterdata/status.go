package masterdata

// Status is the lifecycle state of a master record as seen by retrieval.
type Status string

// Record statuses.
const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// StatusOf converts a stored is_deleted flag into a Status.
//
// A nil flag means the column was never written and is treated as active,
// the same as an explicit false. This is the only place that interprets the
// flag; everything else asks for a Status.
func StatusOf(isDeleted *bool) Status {
	if isDeleted != nil && *isDeleted {
		return StatusDeleted
	}
	return StatusActive
}

// IsActive reports whether the status allows the record to be returned.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// ActiveOnly returns the rows whose status is active, keeping their order.
//
// The deleted accessor returns the row's raw is_deleted flag.
func ActiveOnly[R any](rows []R, deleted func(R) *bool) []R {
	active := make([]R, 0, len(rows))
	for _, row := range rows {
		if StatusOf(deleted(row)).IsActive() {
			active = append(active, row)
		}
	}
	return active
}
