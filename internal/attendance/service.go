package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"schoolboard/internal/cache"
	"schoolboard/internal/daybucket"
	"schoolboard/internal/events"
	"schoolboard/internal/logger"
	apperrors "schoolboard/pkg/errors"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// WeekDay is one bar of the current-week chart.
type WeekDay struct {
	Name    string `json:"name"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// CheckResult is the stored state of one (student, lesson, day).
type CheckResult struct {
	Present bool   `json:"present"`
	Date    string `json:"date"`
}

// MarkInput carries a mark request. Present is required; nil means absent from the request.
type MarkInput struct {
	StudentID string
	LessonID  int64
	Present   *bool
	Date      string
}

// Service coordinates attendance writes, notifications and summaries.
type Service struct {
	store Store
	bus   events.Publisher
	cache cache.Cache
	now   func() time.Time
	log   zerolog.Logger
}

// NewService wires a store, an event publisher and a summary cache. A nil
// cache disables caching.
func NewService(store Store, bus events.Publisher, c cache.Cache) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{store: store, bus: bus, cache: c, now: time.Now, log: logger.With("attendance")}
}

// Mark upserts the day's record and notifies listeners.
func (s *Service) Mark(ctx context.Context, in MarkInput) (Record, error) {
	if in.StudentID == "" || in.LessonID <= 0 || in.Present == nil {
		return Record{}, apperrors.Required("studentId, lessonId and present are required")
	}
	day, err := daybucket.Parse(in.Date, s.now())
	if err != nil {
		return Record{}, err
	}

	rec, err := s.store.Upsert(ctx, Record{
		StudentID: in.StudentID,
		LessonID:  in.LessonID,
		Date:      day.Start,
		Present:   *in.Present,
	})
	if err != nil {
		return Record{}, fmt.Errorf("upsert attendance: %w", err)
	}

	s.invalidate(ctx)
	s.bus.Publish(events.Event{
		StudentID: rec.StudentID,
		LessonID:  rec.LessonID,
		Present:   rec.Present,
		Date:      day.Day(),
	})
	return rec, nil
}

// Unmark deletes the day's record. Listeners hear present=false only when a
// record was actually removed.
func (s *Service) Unmark(ctx context.Context, studentID string, lessonID int64, date string) (bool, error) {
	if studentID == "" || lessonID <= 0 {
		return false, apperrors.Required("studentId and lessonId are required")
	}
	day, err := daybucket.Parse(date, s.now())
	if err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, studentID, lessonID, day)
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	if !deleted {
		return false, nil
	}

	s.invalidate(ctx)
	s.bus.Publish(events.Event{StudentID: studentID, LessonID: lessonID, Present: false, Date: day.Day()})
	return true, nil
}

// Check returns the stored mark for the day, or nil when there is none.
func (s *Service) Check(ctx context.Context, studentID string, lessonID int64, date string) (*CheckResult, error) {
	if studentID == "" || lessonID <= 0 {
		return nil, apperrors.Required("studentId and lessonId required")
	}
	day, err := daybucket.Parse(date, s.now())
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Find(ctx, studentID, lessonID, day)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &CheckResult{Present: rec.Present, Date: rec.Date.UTC().Format(daybucket.Layout)}, nil
}

// StudentMonth lists a student's marks for a month (1-based month, defaults to now).
func (s *Service) StudentMonth(ctx context.Context, studentID, month, year string) ([]StudentDay, error) {
	if studentID == "" {
		return nil, apperrors.Required("studentId required")
	}
	rng, err := daybucket.MonthOf(month, year, s.now())
	if err != nil {
		return nil, err
	}
	days, err := s.store.ListForStudent(ctx, studentID, rng)
	if err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return days, nil
}

// MonthTotals counts present and absent marks across all students for a month.
func (s *Service) MonthTotals(ctx context.Context, month, year string) (Totals, error) {
	rng, err := daybucket.MonthOf(month, year, s.now())
	if err != nil {
		return Totals{}, err
	}
	key := "total:" + rng.Start.Format("2006-01")

	var t Totals
	gen, hit := s.cached(ctx, key, &t)
	if hit {
		return t, nil
	}
	t, err = s.store.CountByPresence(ctx, rng)
	if err != nil {
		return Totals{}, fmt.Errorf("count attendance: %w", err)
	}
	s.remember(ctx, gen, key, t)
	return t, nil
}

// Week returns Mon..Fri present/absent counts for the current UTC week.
func (s *Service) Week(ctx context.Context) ([]WeekDay, error) {
	monday := daybucket.WeekStart(s.now())
	key := "week:" + monday.Format(daybucket.Layout)

	var out []WeekDay
	gen, hit := s.cached(ctx, key, &out)
	if hit {
		return out, nil
	}

	recs, err := s.store.ListRange(ctx, daybucket.Range{Start: monday, End: monday.AddDate(0, 0, 7)})
	if err != nil {
		return nil, fmt.Errorf("list week attendance: %w", err)
	}

	out = make([]WeekDay, len(weekdays))
	for i, name := range weekdays {
		out[i].Name = name
	}
	for _, rec := range recs {
		dow := int(rec.Date.UTC().Weekday())
		if dow < 1 || dow > 5 {
			continue
		}
		if rec.Present {
			out[dow-1].Present++
		} else {
			out[dow-1].Absent++
		}
	}
	s.remember(ctx, gen, key, out)
	return out, nil
}

// cached looks key up and returns the generation a recomputed value must be
// stored under. gen is -1 when the cache could not be read.
func (s *Service) cached(ctx context.Context, key string, dst any) (gen int64, hit bool) {
	gen, hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
		return -1, false
	}
	return gen, hit
}

func (s *Service) remember(ctx context.Context, gen int64, key string, v any) {
	if gen < 0 {
		return
	}
	if err := s.cache.Set(ctx, gen, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
}
