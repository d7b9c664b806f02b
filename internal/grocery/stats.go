package grocery

import (
	"math"

	"github.com/dukerupert/provisions/internal/model"
)

// Stats summarizes a list of items.
type Stats struct {
	TotalItems      int     `json:"totalItems"`
	CompletedItems  int     `json:"completedItems"`
	PendingItems    int     `json:"pendingItems"`
	TotalBuyAmount  float64 `json:"totalBuyAmount"`
	TotalSellAmount float64 `json:"totalSellAmount"`
	Profit          float64 `json:"profit"`
	CompletionRate  int     `json:"completionRate"`
}

// CalculateStats totals items. CompletionRate is a whole percentage.
func CalculateStats(items []model.Item) Stats {
	var s Stats
	for _, item := range items {
		s.TotalItems++
		s.TotalBuyAmount += item.BuyTotal()
		s.TotalSellAmount += item.SellTotal()
		if item.IsDone {
			s.CompletedItems++
		} else {
			s.PendingItems++
		}
	}
	s.Profit = s.TotalSellAmount - s.TotalBuyAmount
	if s.TotalItems > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedItems) / float64(s.TotalItems) * 100))
	}
	return s
}
