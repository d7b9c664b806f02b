package model

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD date key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaySummary aggregates one date across every hotel that has items on it.
type DaySummary struct {
	Date       string  `json:"date"`
	Hotels     []Hotel `json:"hotels"`
	TotalItems int     `json:"totalItems"`
	Sections   int     `json:"sections"`
}

// CleanupResult reports what a range cleanup removed.
type CleanupResult struct {
	DeletedDates int    `json:"deletedDates"`
	DeletedItems int    `json:"deletedItems"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
}
