package analytics

import (
	"fmt"
	"sort"
	"time"
)

const TopBlocksLimit = 5

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WindowStart is local midnight of the oldest day in a window of days ending today.
func WindowStart(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-(days-1), 0, 0, 0, 0, now.Location())
}

// AggregateByDay buckets timestamps into the last days calendar days in the
// location of now, oldest first. Days without events are present with zero.
// Timestamps outside the window are ignored.
func AggregateByDay(timestamps []time.Time, days int, now time.Time) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}
	loc := now.Location()
	start := WindowStart(now, days)

	out := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = DayCount{Date: key}
		index[key] = i
	}

	for _, ts := range timestamps {
		if i, ok := index[ts.In(loc).Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out
}

type ClickRecord struct {
	BlockID string
	Type    string
	Label   string
}

type TopBlock struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Clicks int    `json:"clicks"`
}

// TopBlocks groups clicks by block and returns the n most clicked, ties
// keeping the order in which blocks were first seen.
func TopBlocks(clicks []ClickRecord, n int) []TopBlock {
	var order []string
	byID := make(map[string]*TopBlock)
	for _, c := range clicks {
		tb, ok := byID[c.BlockID]
		if !ok {
			tb = &TopBlock{ID: c.BlockID, Type: c.Type, Label: c.Label}
			byID[c.BlockID] = tb
			order = append(order, c.BlockID)
		}
		tb.Clicks++
	}

	out := make([]TopBlock, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FormatCTR renders clicks per hundred views with one decimal. No views is "0".
func FormatCTR(views, clicks int) string {
	if views <= 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(clicks)/float64(views)*100)
}
