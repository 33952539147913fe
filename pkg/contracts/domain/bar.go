package domain

import (
	"time"
)

// BarLayout identifies which variant of the QMT DAT format a file uses.
type BarLayout string

const (
	// BarLayoutDaily is one record per trading day (szdayK, shdayK).
	BarLayoutDaily BarLayout = "daily"
	// BarLayoutIntraday is one record per 5-minute interval (sh5mK).
	BarLayoutIntraday BarLayout = "intraday"
)

// DateFormat returns the time layout used to render bar timestamps.
func (l BarLayout) DateFormat() string {
	if l == BarLayoutIntraday {
		return "2006-01-02 15:04:05"
	}
	return "2006-01-02"
}

// TimeColumn returns the name of the timestamp column in exported tables.
func (l BarLayout) TimeColumn() string {
	if l == BarLayoutIntraday {
		return "datetime"
	}
	return "date"
}

// Bar represents one decoded trading record of a single security.
// Prices and Amount are already scaled to yuan and rounded to two decimals.
type Bar struct {
	Code      string    `json:"code" validate:"required"`
	Time      time.Time `json:"time" validate:"required"`
	Open      float64   `json:"open" validate:"min=0"`
	High      float64   `json:"high" validate:"min=0"`
	Low       float64   `json:"low" validate:"min=0"`
	Close     float64   `json:"close" validate:"min=0"`
	Volume    int64     `json:"volume" validate:"min=0"`
	Amount    float64   `json:"amount" validate:"min=0"`
	PctChange float64   `json:"pct_change"` // 0 for the first bar of a file
}

// RecordTable holds the ordered bars decoded from one DAT file.
type RecordTable struct {
	Code   string    `json:"code"`
	Layout BarLayout `json:"layout"`
	Bars   []Bar     `json:"bars"`

	// Parse statistics
	Chunks        int `json:"chunks"`         // complete fixed-width chunks read
	Skipped       int `json:"skipped"`        // chunks rejected by the plausibility filter
	TrailingBytes int `json:"trailing_bytes"` // bytes after the last complete chunk
}

// Len returns the number of bars in the table.
func (t *RecordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Bars)
}

// Empty reports whether the table has no bars.
func (t *RecordTable) Empty() bool {
	return t.Len() == 0
}
