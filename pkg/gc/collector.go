// Package gc provides garbage collection for orphaned blobs.
//
// The engine writes payloads before metadata and removes metadata before
// payloads, so every interrupted operation can only strand blobs that no leaf
// references anymore. The collector periodically computes the difference
// between the blobs that exist and the blobs the metadata references, and
// deletes the remainder.
package gc

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/blob"
	"github.com/marmos91/dataroom/pkg/dataroom"
)

// Collector performs periodic orphaned-blob collection.
//
// Thread Safety: Safe for concurrent use.
type Collector struct {
	store  dataroom.Store
	blobs  blob.Store
	config Config
	stopCh chan struct{}
	doneCh chan struct{}
}

// Config contains configuration for the garbage collector.
type Config struct {
	// Enabled controls whether background collection runs (default: false)
	Enabled bool `mapstructure:"enabled"`

	// Interval is how often to run collection (default: 24h)
	Interval time.Duration `mapstructure:"interval"`

	// BatchSize is how many orphaned blobs to delete per batch
	// (default: 1000, the S3 DeleteObjects ceiling)
	BatchSize int `mapstructure:"batch_size"`

	// DryRun logs what would be deleted without deleting (default: false)
	DryRun bool `mapstructure:"dry_run"`
}

// NewCollector creates a collector over the given stores. The collector is
// initialized but not started; call Start for background collection or RunNow
// for a one-shot pass.
func NewCollector(store dataroom.Store, blobs blob.Store, config Config) *Collector {
	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}
	if config.BatchSize == 0 {
		config.BatchSize = 1000
	}

	return &Collector{
		store:  store,
		blobs:  blobs,
		config: config,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins background collection at the configured interval. A no-op when
// collection is disabled.
func (c *Collector) Start() {
	if !c.config.Enabled {
		logger.Info("Garbage collection disabled")
		return
	}

	logger.Info("Starting garbage collector: interval=%s batch_size=%d dry_run=%v",
		c.config.Interval, c.config.BatchSize, c.config.DryRun)

	go c.worker()
}

// Stop signals the worker to stop and waits for any in-progress collection to
// finish, bounded by ctx.
func (c *Collector) Stop(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	logger.Info("Stopping garbage collector...")
	close(c.stopCh)

	select {
	case <-c.doneCh:
		logger.Info("Garbage collector stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("Garbage collector shutdown timeout")
		return ctx.Err()
	}
}

// RunNow triggers an immediate collection pass and blocks until it completes.
func (c *Collector) RunNow(ctx context.Context) (*Stats, error) {
	logger.Info("Running garbage collection (manual trigger)...")
	return c.collect(ctx)
}

func (c *Collector) worker() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			stats, err := c.collect(ctx)
			cancel()

			if err != nil {
				logger.Error("Garbage collection failed: %v", err)
			} else {
				logger.Info("Garbage collection completed: %s", stats.Summary())
			}

		case <-c.stopCh:
			return
		}
	}
}

// collect performs a single collection pass:
//  1. List every blob key in the blob store
//  2. Gather every blob key referenced by a leaf, across all rooms
//  3. orphaned = existing - referenced
//  4. Batch delete the orphans
//
// Uploads write the blob before the leaf record, so a blob can briefly exist
// unreferenced. Listing blobs first keeps that window small: a blob written
// after the listing is invisible to this pass, and one written before it has
// until the referenced snapshot to land its leaf record. An upload that still
// straddles both snapshots loses its blob; the record it then inserts points
// at deleted content.
func (c *Collector) collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	existing, err := c.blobs.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list blobs: %w", err)
	}
	stats.ExistingCount = uint64(len(existing))

	referenced, err := c.referencedKeys(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to gather referenced blobs: %w", err)
	}
	stats.ReferencedCount = uint64(len(referenced))

	orphaned := make([]string, 0)
	for _, key := range existing {
		if _, ok := referenced[key]; !ok {
			orphaned = append(orphaned, key)
		}
	}
	stats.OrphanedCount = uint64(len(orphaned))

	if len(orphaned) == 0 {
		stats.EndTime = time.Now()
		return stats, nil
	}

	logger.Info("GC: Found %d orphaned blobs (%d referenced, %d existing)",
		stats.OrphanedCount, stats.ReferencedCount, stats.ExistingCount)

	if c.config.DryRun {
		logger.Info("GC: DRY RUN - Would delete %d blobs:", stats.OrphanedCount)
		for i, key := range orphaned {
			if i >= 10 {
				logger.Info("  ... and %d more", len(orphaned)-10)
				break
			}
			logger.Info("  - %s", key)
		}
		stats.EndTime = time.Now()
		return stats, nil
	}

	for i := 0; i < len(orphaned); i += c.config.BatchSize {
		if err := ctx.Err(); err != nil {
			stats.EndTime = time.Now()
			return stats, err
		}

		end := i + c.config.BatchSize
		if end > len(orphaned) {
			end = len(orphaned)
		}
		batch := orphaned[i:end]

		failures, err := c.blobs.DeleteBatch(ctx, batch)
		if err != nil {
			logger.Warn("GC: Batch delete failed: %v", err)
			stats.FailedCount += uint64(len(batch))
			continue
		}

		stats.DeletedCount += uint64(len(batch) - len(failures))
		stats.FailedCount += uint64(len(failures))

		for key, ferr := range failures {
			logger.Debug("GC: Failed to delete %s: %v", key, ferr)
		}
	}

	stats.EndTime = time.Now()

	logger.Info("GC: Completed - deleted %d blobs, %d failed, duration=%s",
		stats.DeletedCount, stats.FailedCount, stats.Duration())

	return stats, nil
}

// referencedKeys collects the blob key of every leaf across all rooms.
func (c *Collector) referencedKeys(ctx context.Context) (map[string]struct{}, error) {
	rooms, err := c.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]struct{})
	for i := range rooms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		leaves, err := c.store.ListLeavesByRoom(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range leaves {
			referenced[leaves[j].BlobKey] = struct{}{}
		}
	}
	return referenced, nil
}

// Stats contains statistics from a collection pass.
type Stats struct {
	StartTime       time.Time
	EndTime         time.Time
	ReferencedCount uint64 // blob keys referenced by leaves
	ExistingCount   uint64 // blob keys present in the blob store
	OrphanedCount   uint64 // orphans found this pass
	DeletedCount    uint64 // orphans successfully deleted
	FailedCount     uint64 // orphans that failed to delete
}

// Duration returns the total pass duration.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Summary returns a human-readable summary of the pass.
func (s *Stats) Summary() string {
	return fmt.Sprintf("referenced=%d existing=%d orphaned=%d deleted=%d failed=%d duration=%s",
		s.ReferencedCount, s.ExistingCount, s.OrphanedCount,
		s.DeletedCount, s.FailedCount, s.Duration())
}
