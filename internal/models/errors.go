package models

import "errors"

// ErrNotFound indicates a ticker has no row in the holdings table.
var ErrNotFound = errors.New("holding not found")

// ErrRowCountRegression indicates a whole-table write would persist fewer
// rows than were last read. The write is blocked until the caller confirms
// the reduction explicitly.
var ErrRowCountRegression = errors.New("outgoing row count is smaller than last read; explicit confirmation required")
