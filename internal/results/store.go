package results

import "context"

// Filter narrows the rows a caller may see. Empty fields do not filter.
type Filter struct {
	StudentID string
	TeacherID string
	ParentID  string
	Search    string
}

// Store reads and deletes result rows. Rows come back newest first.
// Result creation belongs to the record management screens, not this service.
type Store interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]Row, error)
	Count(ctx context.Context, f Filter) (int, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}
