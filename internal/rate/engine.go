package rate

import (
	"context"
	"errors"
	"fmt"

	"ratesync/internal/adapters"
	"ratesync/internal/domain"

	"github.com/sirupsen/logrus"
)

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Tally counts record outcomes over one batch.
type Tally struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

func (t Tally) Upserted() int { return t.Created + t.Updated }

// Engine reconciles mapped rows with the destination: look the row up by its natural
// key, then update it in place or create it.
type Engine struct {
	dest            adapters.Destination
	databaseID      string
	schema          domain.DestinationSchema
	mapper          *Mapper
	mode            Mode
	rows            adapters.RowCache
	continueOnError bool
}

// Upsert runs the per-record state machine. Skipped records return OutcomeSkipped and
// a nil error.
func (e *Engine) Upsert(ctx context.Context, dateISO string, rec domain.RateRecord) (Outcome, error) {
	row, err := e.mapper.Map(dateISO, rec)
	if err != nil {
		logrus.WithField("code", rec.Code).Infof("Skipping record: %v", err)
		return OutcomeSkipped, nil
	}

	key := e.NaturalKey(dateISO, row)

	rowID, err := e.lookup(ctx, key)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("lookup %s: %w", row.Code, err)
	}

	if rowID != "" {
		if err = e.dest.UpdateRow(ctx, rowID, row.Properties); err != nil {
			return OutcomeFailed, fmt.Errorf("update %s: %w", row.Code, err)
		}
		return OutcomeUpdated, nil
	}

	created, err := e.dest.CreateRow(ctx, e.databaseID, row.Properties)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create %s: %w", row.Code, err)
	}
	if e.rows != nil && created.ID != "" {
		e.rows.Set(key, created.ID)
	}
	return OutcomeCreated, nil
}

// Process upserts every record in feed order. A destination failure aborts the batch
// unless the engine was built to continue on error; rows written before the failure stay.
func (e *Engine) Process(ctx context.Context, snapshot domain.FeedSnapshot) (Tally, error) {
	var tally Tally
	for _, rec := range snapshot.Rates {
		if err := ctx.Err(); err != nil {
			return tally, err
		}

		outcome, err := e.Upsert(ctx, snapshot.Date, rec)
		switch outcome {
		case OutcomeCreated:
			tally.Created++
		case OutcomeUpdated:
			tally.Updated++
		case OutcomeSkipped:
			tally.Skipped++
		case OutcomeFailed:
			tally.Failed++
		}
		if err == nil {
			continue
		}

		entry := logrus.WithError(err).WithField("code", rec.NormalizedCode())
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			entry = entry.WithFields(logrus.Fields{
				"request_body":  string(apiErr.RequestBody),
				"response_body": string(apiErr.ResponseBody),
			})
		}
		if !e.continueOnError {
			entry.Error("Upsert failed, aborting batch")
			return tally, err
		}
		entry.Warn("Upsert failed, continuing with next record")
	}

	if tally.Failed > 0 {
		return tally, fmt.Errorf("%w: %d of %d records", domain.ErrPartialSync, tally.Failed, len(snapshot.Rates))
	}
	return tally, nil
}

// NaturalKey builds the lookup conditions for row under the engine's mode.
func (e *Engine) NaturalKey(dateISO string, row MappedRow) domain.RowQuery {
	var q domain.RowQuery
	if e.mode == ModeHistory {
		q = append(q, domain.Condition{Property: e.schema.Updated, Type: domain.PropertyDate, Equals: dateISO})
	}
	if e.schema.Currency != "" {
		return append(q, domain.Condition{Property: e.schema.Currency, Type: domain.PropertySelect, Equals: row.Code})
	}
	return append(q, domain.Condition{Property: e.schema.Title, Type: domain.PropertyTitle, Equals: row.Title})
}

func (e *Engine) lookup(ctx context.Context, key domain.RowQuery) (string, error) {
	if e.rows != nil {
		if id, ok := e.rows.Get(key); ok {
			return id, nil
		}
	}

	found, err := e.dest.QueryRows(ctx, e.databaseID, key)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", nil
	}
	if e.rows != nil {
		e.rows.Set(key, found[0].ID)
	}
	return found[0].ID, nil
}

type EngineConfig struct {
	DatabaseID      string
	Mode            Mode
	ContinueOnError bool
}

func NewEngine(dest adapters.Destination, schema domain.DestinationSchema, mapper *Mapper, rows adapters.RowCache, cfg EngineConfig) *Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeLatest
	}
	return &Engine{
		dest:            dest,
		databaseID:      cfg.DatabaseID,
		schema:          schema,
		mapper:          mapper,
		mode:            mode,
		rows:            rows,
		continueOnError: cfg.ContinueOnError,
	}
}
