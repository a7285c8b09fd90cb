package storage

import "time"

// PriceQuote is one commodity's current reading as delivered by the price API.
type PriceQuote struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Change24h *float64 `json:"change_24h,omitempty"`
}

// Snapshot records the outcome of a single fetch cycle.
type Snapshot struct {
	Date   time.Time    `json:"date"`
	Prices []PriceQuote `json:"prices"`
}

// Alert captures a threshold breach against the previous snapshot.
type Alert struct {
	Date          time.Time `json:"date"`
	Commodity     string    `json:"commodity"`
	Code          string    `json:"code"`
	PreviousPrice float64   `json:"previous_price"`
	CurrentPrice  float64   `json:"current_price"`
	ChangePercent float64   `json:"change_percent"`
	Message       string    `json:"message"`
}

// History is the whole persisted state: chronological snapshots capped by the
// retention limit plus every alert ever raised.
type History struct {
	History []Snapshot `json:"history"`
	Alerts  []Alert    `json:"alerts"`
}

// NewHistory returns an empty history whose slices marshal as [] rather than null.
func NewHistory() *History {
	return &History{History: []Snapshot{}, Alerts: []Alert{}}
}

// LastSnapshot returns the most recent snapshot, if any.
func (h *History) LastSnapshot() (Snapshot, bool) {
	if len(h.History) == 0 {
		return Snapshot{}, false
	}
	return h.History[len(h.History)-1], true
}

// AppendSnapshot appends a snapshot and drops the oldest entries beyond retention.
func (h *History) AppendSnapshot(s Snapshot, retention int) {
	h.History = append(h.History, s)
	if retention > 0 && len(h.History) > retention {
		h.History = h.History[len(h.History)-retention:]
	}
}

// AppendAlerts appends to the unbounded alert log.
func (h *History) AppendAlerts(alerts []Alert) {
	h.Alerts = append(h.Alerts, alerts...)
}

// CodeSet is the closed set of commodity codes the tracker cares about.
type CodeSet map[string]struct{}

// NewCodeSet builds a CodeSet from a list of codes.
func NewCodeSet(codes []string) CodeSet {
	set := make(CodeSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Contains reports whether code belongs to the set.
func (s CodeSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// FilterRelevant keeps quotes whose code is in the set, at most one per code.
// Filtering an already-filtered sequence yields the same result.
func FilterRelevant(quotes []PriceQuote, relevant CodeSet) []PriceQuote {
	filtered := make([]PriceQuote, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, quote := range quotes {
		if !relevant.Contains(quote.Code) {
			continue
		}
		if _, dup := seen[quote.Code]; dup {
			continue
		}
		seen[quote.Code] = struct{}{}
		filtered = append(filtered, quote)
	}
	return filtered
}
