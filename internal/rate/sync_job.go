package rate

import (
	"context"
	"fmt"
	"time"

	"ratesync/internal/adapters"
	"ratesync/internal/adapters/cache"
	"ratesync/internal/adapters/httpclient"
	"ratesync/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRowCacheSize = 1024

var runClock = func() time.Time { return time.Now().UTC() }

type SyncConfig struct {
	DatabaseID      string
	Mode            Mode
	Allow           *AllowList
	ContinueOnError bool
	RowCacheSize    int64
}

// Syncer runs one full feed → destination reconciliation per Run call.
type Syncer struct {
	feed    adapters.FeedClient
	dest    adapters.Destination
	cfg     SyncConfig
	metrics *Metrics
	status  *StatusStore
}

// Run fetches the snapshot, resolves the destination schema and upserts every record.
// Nothing is written before the schema resolves.
func (s *Syncer) Run(ctx context.Context) (domain.Report, error) {
	report := domain.Report{ExecID: uuid.NewString(), StartedAt: runClock()}
	log := logrus.WithField("exec_id", report.ExecID)

	err := s.run(ctx, log, &report)

	report.FinishedAt = runClock()
	if err != nil {
		report.Error = err.Error()
		log.WithError(err).Error("Sync run failed")
	}
	s.metrics.ObserveRun(report, err)
	if s.status != nil {
		s.status.Set(report)
	}
	return report, err
}

func (s *Syncer) run(ctx context.Context, log *logrus.Entry, report *domain.Report) error {
	// STEP 1: feed snapshot
	snapshot, err := s.feed.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	if err = httpclient.ValidateSnapshot(snapshot); err != nil {
		return err
	}
	report.Date = snapshot.Date
	log.Infof("Fetched %d rates for %s", len(snapshot.Rates), snapshot.Date)

	// STEP 2: destination schema
	db, err := s.dest.GetDatabase(ctx, s.cfg.DatabaseID)
	if err != nil {
		return fmt.Errorf("get database %s: %w", s.cfg.DatabaseID, err)
	}
	schema, err := ResolveSchema(db)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"title":        schema.Title,
		"currency":     schema.Currency,
		"updated":      schema.Updated,
		"aud_per_unit": schema.AUDPerUnit,
		"per_aud":      schema.PerAUD,
	}).Info("Resolved destination fields")

	// STEP 3: upserts
	size := s.cfg.RowCacheSize
	if size <= 0 {
		size = defaultRowCacheSize
	}
	rows, err := cache.NewRowCache(size)
	if err != nil {
		return err
	}
	defer rows.Close()

	engine := NewEngine(s.dest, schema, NewMapper(schema, s.cfg.Allow, s.cfg.Mode), rows, EngineConfig{
		DatabaseID:      s.cfg.DatabaseID,
		Mode:            s.cfg.Mode,
		ContinueOnError: s.cfg.ContinueOnError,
	})
	tally, err := engine.Process(ctx, snapshot)
	report.Created = tally.Created
	report.Updated = tally.Updated
	report.Skipped = tally.Skipped
	report.Failed = tally.Failed
	report.Upserted = tally.Upserted()

	log.WithFields(logrus.Fields{
		"created": tally.Created,
		"updated": tally.Updated,
		"skipped": tally.Skipped,
		"failed":  tally.Failed,
	}).Infof("Upserted %d currencies for %s", report.Upserted, snapshot.Date)
	return err
}

func NewSyncer(feed adapters.FeedClient, dest adapters.Destination, cfg SyncConfig, metrics *Metrics, status *StatusStore) *Syncer {
	return &Syncer{feed: feed, dest: dest, cfg: cfg, metrics: metrics, status: status}
}
