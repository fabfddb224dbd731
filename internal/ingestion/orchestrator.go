package ingestion

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Report aggregates one ingestion run across all units.
type Report struct {
	RunID       string
	Units       int // units attempted
	Failed      int // units that failed (bad owner, store error)
	Profiles    int // sum of profiles touched per unit
	Edges       int // sum of edges touched per unit
	SkippedRows int // friend rows dropped by normalization
	Duration    time.Duration
}

// Orchestrator fans ingestion units out over a worker pool. Units are
// independent, so failures are isolated: a bad unit is logged and
// counted, never aborts its siblings.
type Orchestrator struct {
	engine  *Engine
	reader  *UnitReader
	logger  *logrus.Logger
	workers int
}

// NewOrchestrator creates an orchestrator; workers <= 0 means one per CPU.
func NewOrchestrator(engine *Engine, reader *UnitReader, logger *logrus.Logger, workers int) *Orchestrator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Orchestrator{engine: engine, reader: reader, logger: logger, workers: workers}
}

// IngestDirectory discovers the CSV exports under dir and ingests each
// as one unit. Re-running over unchanged input is a no-op for the
// store; the report still counts the units as processed.
func (o *Orchestrator) IngestDirectory(ctx context.Context, dir string) (*Report, error) {
	files, err := WalkCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	report := &Report{RunID: uuid.New().String()}

	o.logger.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"dir":     dir,
		"files":   len(files),
		"workers": o.workers,
	}).Info("Starting ingestion run")

	paths := make(chan string, o.workers)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				result, err := o.ingestFile(ctx, path)

				mu.Lock()
				report.Units++
				if err != nil {
					report.Failed++
				} else {
					report.Profiles += result.Profiles
					report.Edges += result.Edges
					report.SkippedRows += result.Skipped
				}
				mu.Unlock()

				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		}()
	}

send:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break send
		case paths <- path:
		}
	}
	close(paths)
	wg.Wait()

	report.Duration = time.Since(startTime)

	o.logger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"units":    report.Units,
		"failed":   report.Failed,
		"profiles": report.Profiles,
		"edges":    report.Edges,
		"skipped":  report.SkippedRows,
		"duration": report.Duration.String(),
	}).Info("Ingestion run completed")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (o *Orchestrator) ingestFile(ctx context.Context, path string) (*UnitResult, error) {
	unit, err := o.reader.ReadUnit(path)
	if err != nil {
		o.logger.WithError(err).WithField("source", path).Warn("Skipping unreadable unit")
		return nil, err
	}

	result, err := o.engine.IngestUnit(ctx, unit)
	if err != nil {
		o.logger.WithError(err).WithField("source", unit.Source).Warn("Unit ingestion failed")
		return nil, err
	}
	return result, nil
}
