// Package fees records whether a student's fee for a given day has been paid.
package fees

import (
	"context"
	"fmt"
	"time"

	"schoolboard/internal/daybucket"
	apperrors "schoolboard/pkg/errors"
)

// Record is one stored fee entry. Date is a UTC midnight.
type Record struct {
	ID        string
	StudentID string
	Date      time.Time
	Paid      bool
}

// Entry is the API view of a fee record.
type Entry struct {
	Date string `json:"date"`
	Paid bool   `json:"paid"`
}

// Store persists fee records, at most one per (student, UTC day).
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	ListRange(ctx context.Context, studentID string, r daybucket.Range) ([]Record, error)
}

// MarkInput is a fee mark request. Paid is required; nil means absent.
type MarkInput struct {
	StudentID string
	Date      string
	Paid      *bool
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Mark upserts the fee record for the given day. Fee changes are not broadcast.
func (s *Service) Mark(ctx context.Context, in MarkInput) (Record, error) {
	if in.StudentID == "" || in.Date == "" || in.Paid == nil {
		return Record{}, apperrors.Required("studentId, date, paid required")
	}
	day, err := daybucket.Parse(in.Date, s.now())
	if err != nil {
		return Record{}, err
	}
	rec, err := s.store.Upsert(ctx, Record{StudentID: in.StudentID, Date: day.Start, Paid: *in.Paid})
	if err != nil {
		return Record{}, fmt.Errorf("upsert fee: %w", err)
	}
	return rec, nil
}

// StudentRange lists a student's fee records with start <= date < end.
func (s *Service) StudentRange(ctx context.Context, studentID, start, end string) ([]Entry, error) {
	if studentID == "" {
		return nil, apperrors.Required("studentId required")
	}
	if start == "" || end == "" {
		return nil, apperrors.Required("start and end required")
	}
	from, err := daybucket.Parse(start, s.now())
	if err != nil {
		return nil, err
	}
	to, err := daybucket.Parse(end, s.now())
	if err != nil {
		return nil, err
	}

	recs, err := s.store.ListRange(ctx, studentID, daybucket.Range{Start: from.Start, End: to.Start})
	if err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Entry{Date: rec.Date.UTC().Format(daybucket.Layout), Paid: rec.Paid})
	}
	return out, nil
}
