package results

import (
	"context"
	"fmt"

	apperrors "schoolboard/pkg/errors"
)

const (
	PageSize    = 10
	RecentLimit = 6
)

// Page is one page of the grouped results listing. Count is the number of
// underlying rows, which is what the pages are cut on.
type Page struct {
	Data  []Summary `json:"data"`
	Count int       `json:"count"`
	Page  int       `json:"page"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Listing groups one page of rows matching f.
func (s *Service) Listing(ctx context.Context, f Filter, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.store.List(ctx, f, PageSize, PageSize*(page-1))
	if err != nil {
		return Page{}, fmt.Errorf("list results: %w", err)
	}
	count, err := s.store.Count(ctx, f)
	if err != nil {
		return Page{}, fmt.Errorf("count results: %w", err)
	}
	data := GroupListing(rows)
	if data == nil {
		data = []Summary{}
	}
	return Page{Data: data, Count: count, Page: page}, nil
}

// Recent returns a student's latest submissions. f.StudentID is required;
// the other filter fields narrow visibility as in Listing.
func (s *Service) Recent(ctx context.Context, f Filter) ([]Summary, error) {
	if f.StudentID == "" {
		return nil, apperrors.Required("studentId required")
	}
	f.Search = ""
	rows, err := s.store.List(ctx, f, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	out := GroupRecent(rows, RecentLimit)
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

// DeleteGroup removes every row of a submission.
func (s *Service) DeleteGroup(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.Required("no ids")
	}
	n, err := s.store.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	return n, nil
}
