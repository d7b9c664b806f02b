package store

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/notify"
)

// dateRange is an inclusive calendar-date range. An inverted range matches
// nothing.
type dateRange struct {
	from, to time.Time
}

func parseRange(fromDate, toDate string) (dateRange, error) {
	from, err := model.ParseDate(fromDate)
	if err != nil {
		return dateRange{}, err
	}
	to, err := model.ParseDate(toDate)
	if err != nil {
		return dateRange{}, err
	}
	return dateRange{from: from, to: to}, nil
}

// contains reports whether the date key falls inside the range. Keys that do
// not parse as dates never match.
func (r dateRange) contains(key string) bool {
	d, err := model.ParseDate(key)
	if err != nil {
		return false
	}
	return !d.Before(r.from) && !d.After(r.to)
}

// orderedHotels returns the hotel keys of doc, enumerated hotels first.
func orderedHotels(doc *model.Document) []model.Hotel {
	hotels := make([]model.Hotel, 0, len(doc.Hotels))
	for h := range doc.Hotels {
		hotels = append(hotels, h)
	}
	rank := func(h model.Hotel) int {
		if i := slices.Index(model.Hotels, h); i >= 0 {
			return i
		}
		return len(model.Hotels)
	}
	slices.SortFunc(hotels, func(a, b model.Hotel) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return hotels
}

func countItems(sections model.SectionMap) int {
	n := 0
	for _, items := range sections {
		n += len(items)
	}
	return n
}

// GetDataInRange lists every date in [fromDate, toDate] that holds at least
// one item, merged across hotels and sorted by date. Only malformed bounds
// are an error.
func (s *DocumentStore) GetDataInRange(fromDate, toDate string) ([]model.DaySummary, error) {
	r, err := parseRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc := s.load()
	s.mu.Unlock()

	byDate := make(map[string]*model.DaySummary)
	sectionsByDate := make(map[string]map[model.Section]struct{})

	for _, hotel := range orderedHotels(doc) {
		for date, sections := range doc.Hotels[hotel] {
			if !r.contains(date) {
				continue
			}
			total := countItems(sections)
			if total == 0 {
				continue
			}

			summary, ok := byDate[date]
			if !ok {
				summary = &model.DaySummary{Date: date}
				byDate[date] = summary
				sectionsByDate[date] = make(map[model.Section]struct{})
			}
			summary.Hotels = append(summary.Hotels, hotel)
			summary.TotalItems += total
			for sec := range sections {
				sectionsByDate[date][sec] = struct{}{}
			}
		}
	}

	result := make([]model.DaySummary, 0, len(byDate))
	for date, summary := range byDate {
		summary.Sections = len(sectionsByDate[date])
		result = append(result, *summary)
	}
	slices.SortFunc(result, func(a, b model.DaySummary) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return result, nil
}

// sweepRange counts every hotel/date entry of doc inside r, empty or not,
// deleting the entries when remove is set.
func sweepRange(doc *model.Document, r dateRange, remove bool) (dates, items int) {
	for _, hotel := range orderedHotels(doc) {
		entries := doc.Hotels[hotel]
		for date, sections := range entries {
			if !r.contains(date) {
				continue
			}
			items += countItems(sections)
			dates++
			if remove {
				delete(entries, date)
			}
		}
	}
	return dates, items
}

// PreviewCleanup reports what CleanupDataInRange would delete for the same
// bounds without modifying anything.
func (s *DocumentStore) PreviewCleanup(fromDate, toDate string) (*model.CleanupResult, error) {
	r, err := parseRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc := s.load()
	s.mu.Unlock()

	result := &model.CleanupResult{FromDate: fromDate, ToDate: toDate}
	result.DeletedDates, result.DeletedItems = sweepRange(doc, r, false)
	return result, nil
}

// CleanupDataInRange deletes every hotel/date entry in [fromDate, toDate],
// empty or not, and saves once. The deletion cannot be undone; callers are
// expected to confirm with the user first.
func (s *DocumentStore) CleanupDataInRange(fromDate, toDate string) (*model.CleanupResult, error) {
	r, err := parseRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	result := &model.CleanupResult{FromDate: fromDate, ToDate: toDate}
	result.DeletedDates, result.DeletedItems = sweepRange(doc, r, true)

	if result.DeletedDates == 0 {
		return result, nil
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	s.logger.Info("cleaned up date range",
		"from", fromDate, "to", toDate,
		"dates", result.DeletedDates, "items", result.DeletedItems)
	s.notifier.Notify(notify.LevelSuccess,
		fmt.Sprintf("Deleted %d items on %d dates", result.DeletedItems, result.DeletedDates))
	return result, nil
}
