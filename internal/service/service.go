package service

import (
	"context"

	"shelfwatch/internal/model"
)

// SyncService applies one fetched catalog snapshot against the record store.
type SyncService interface {
	// Upsert normalizes one raw feed item, classifies it against stored
	// state, and applies the matching mutation. Store failures are reported
	// in the Result, never raised.
	Upsert(ctx context.Context, raw model.RawItem) Result

	// RunBatch merges stock data into the catalog items by product ID and
	// upserts every merged record, returning the aggregate tally. Individual
	// failures never abort the batch.
	RunBatch(ctx context.Context, catalog []model.RawItem, stock map[string]model.RawItem) Tally
}

// Outcome of one upsert.
type Outcome int

const (
	Inserted Outcome = iota
	Updated
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports one upsert's outcome. Err is set only when Outcome is
// Failed.
type Result struct {
	ID      string
	Outcome Outcome
	Err     error
}

// Tally accumulates per-record outcomes over one batch run.
type Tally struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of records processed.
func (t Tally) Total() int {
	return t.Inserted + t.Updated + t.Skipped + t.Failed
}
