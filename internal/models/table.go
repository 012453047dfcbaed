package models

// HoldingTable is the full in-memory holdings table. Rows keep their read
// order; upserts replace in place by ticker, never duplicate.
type HoldingTable struct {
	Columns []string  `json:"columns"`
	Rows    []Holding `json:"rows"`
}

// NewHoldingTable returns an empty table carrying the canonical column set.
func NewHoldingTable() *HoldingTable {
	return &HoldingTable{Columns: HoldingColumns}
}

// Len returns the number of data rows.
func (t *HoldingTable) Len() int {
	return len(t.Rows)
}

// Get returns the row for a ticker, or nil if absent.
func (t *HoldingTable) Get(ticker string) *Holding {
	ticker = NormalizeTicker(ticker)
	for i := range t.Rows {
		if t.Rows[i].Ticker == ticker {
			return &t.Rows[i]
		}
	}
	return nil
}

// Upsert replaces the row with a matching ticker, or appends when no row
// matches. Ticker uniqueness is invariant: an upsert never duplicates.
func (t *HoldingTable) Upsert(h Holding) {
	h.Ticker = NormalizeTicker(h.Ticker)
	for i := range t.Rows {
		if t.Rows[i].Ticker == h.Ticker {
			t.Rows[i] = h
			return
		}
	}
	t.Rows = append(t.Rows, h)
}

// Remove deletes the row for a ticker, reporting whether it existed.
func (t *HoldingTable) Remove(ticker string) bool {
	ticker = NormalizeTicker(ticker)
	for i := range t.Rows {
		if t.Rows[i].Ticker == ticker {
			t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// Tickers returns all tickers in row order.
func (t *HoldingTable) Tickers() []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Rows[i].Ticker
	}
	return out
}

// Clone returns a deep copy so a sync run can own its table exclusively.
func (t *HoldingTable) Clone() *HoldingTable {
	c := &HoldingTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    append([]Holding(nil), t.Rows...),
	}
	return c
}
