package blocks

import (
	"fmt"
	"sort"
)

// Position is one entry of a reorder request.
type Position struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ValidatePermutation accepts items only when they name every id in current
// exactly once and their orders are exactly 0..n-1.
func ValidatePermutation(current []string, items []Position) error {
	n := len(current)
	known := make(map[string]bool, n)
	for _, id := range current {
		known[id] = true
	}

	var fields []fieldErr
	seenID := make(map[string]bool, len(items))
	seenOrder := make(map[int]bool, len(items))
	for i, it := range items {
		switch {
		case !known[it.ID]:
			fields = append(fields, fieldErr{fmt.Sprintf("blocks[%d].id", i), "unknown block"})
		case seenID[it.ID]:
			fields = append(fields, fieldErr{fmt.Sprintf("blocks[%d].id", i), "duplicate block"})
		}
		seenID[it.ID] = true

		switch {
		case it.Order < 0 || it.Order >= n:
			fields = append(fields, fieldErr{fmt.Sprintf("blocks[%d].order", i), fmt.Sprintf("must be between 0 and %d", n-1)})
		case seenOrder[it.Order]:
			fields = append(fields, fieldErr{fmt.Sprintf("blocks[%d].order", i), "duplicate order"})
		}
		seenOrder[it.Order] = true
	}
	for _, id := range current {
		if !seenID[id] {
			fields = append(fields, fieldErr{"blocks", fmt.Sprintf("missing block %s", id)})
		}
	}
	if len(fields) > 0 {
		return invalidOrder(fields)
	}
	return nil
}

// Compact returns the blocks sorted by their current order with orders
// rewritten to 0..n-1. Ties keep their input sequence.
func Compact(list []Block) []Block {
	out := make([]Block, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

// MoveTo returns ids with id relocated to index to. The caller validates to.
func MoveTo(ids []string, id string, to int) []string {
	rest := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			rest = append(rest, v)
		}
	}
	if to > len(rest) {
		to = len(rest)
	}
	out := make([]string, 0, len(ids))
	out = append(out, rest[:to]...)
	out = append(out, id)
	return append(out, rest[to:]...)
}
