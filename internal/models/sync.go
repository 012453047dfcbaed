package models

import "time"

// SyncProgress is emitted once per ticker as the batch advances. The
// orchestrator has no knowledge of how progress is rendered.
type SyncProgress struct {
	Index  int    `json:"index"` // 1-based position in the batch
	Total  int    `json:"total"`
	Ticker string `json:"ticker"`
}

// SyncReport aggregates the outcome of one batch synchronization run.
type SyncReport struct {
	RunID     string        `json:"run_id"`
	Succeeded []string      `json:"succeeded"`
	Failed    []string      `json:"failed"`
	Table     *HoldingTable `json:"-"`
	Started   time.Time     `json:"started"`
	Finished  time.Time     `json:"finished"`
}
