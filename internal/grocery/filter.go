package grocery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dukerupert/provisions/internal/model"
)

const (
	StatusAll     = "all"
	StatusPending = "pending"
	StatusDone    = "done"
)

const (
	SortByName      = "name"
	SortByBuyTotal  = "buyTotal"
	SortBySellTotal = "sellTotal"
	SortByDate      = "date"
	SortByStatus    = "status"
)

// FilterItems keeps items whose name contains term (case-insensitive) and
// whose completion matches status. An unknown status matches everything.
func FilterItems(items []model.Item, term, status string) []model.Item {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if term != "" && !strings.Contains(strings.ToLower(item.Name), term) {
			continue
		}
		switch status {
		case StatusPending:
			if item.IsDone {
				continue
			}
		case StatusDone:
			if !item.IsDone {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// SortItems returns a sorted copy of items. Order is "asc" unless "desc" is
// given; an unknown key leaves the order unchanged.
func SortItems(items []model.Item, by, order string) []model.Item {
	sorted := slices.Clone(items)
	compare := comparator(by)
	if compare == nil {
		return sorted
	}
	if order == "desc" {
		asc := compare
		compare = func(a, b model.Item) int { return asc(b, a) }
	}
	slices.SortStableFunc(sorted, compare)
	return sorted
}

func comparator(by string) func(a, b model.Item) int {
	switch by {
	case SortByName:
		return func(a, b model.Item) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByBuyTotal:
		return func(a, b model.Item) int { return cmp.Compare(a.BuyTotal(), b.BuyTotal()) }
	case SortBySellTotal:
		return func(a, b model.Item) int { return cmp.Compare(a.SellTotal(), b.SellTotal()) }
	case SortByDate:
		return func(a, b model.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByStatus:
		rank := func(i model.Item) int {
			if i.IsDone {
				return 1
			}
			return 0
		}
		return func(a, b model.Item) int { return cmp.Compare(rank(a), rank(b)) }
	}
	return nil
}
