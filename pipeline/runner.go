package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"slicealloc/artifact"
	"slicealloc/ml"
	"slicealloc/monitoring"
)

const DefaultCacheSize = 64

// Run is the outcome of one upload. It is shared through the cache and must
// not be modified.
type Run struct {
	ID      string
	Input   ml.Frame
	Results []AllocationResult
	CSV     []byte
}

// Runner binds the loaded artifacts to the pipeline. Identical uploads give
// identical results, so finished runs are cached by content digest; the
// cache also backs result downloads.
type Runner struct {
	bundle  *artifact.Bundle
	cache   *lru.Cache[string, *Run]
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

func NewRunner(bundle *artifact.Bundle, cacheSize int, metrics *monitoring.Metrics, logger *zap.Logger) (*Runner, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *Run](cacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{bundle: bundle, cache: cache, metrics: metrics, logger: logger}, nil
}

// Run parses input as CSV and allocates resources for every row.
func (r *Runner) Run(input []byte) (*Run, error) {
	start := time.Now()
	id := Digest(input)
	if run, ok := r.cache.Get(id); ok {
		r.metrics.ObserveRun(monitoring.OutcomeCached, len(run.Results), time.Since(start))
		r.logger.Debug("allocation served from cache", zap.String("run_id", id))
		return run, nil
	}

	run, err := r.allocate(id, input)
	if err != nil {
		r.metrics.ObserveRun(monitoring.OutcomeError, 0, time.Since(start))
		r.logger.Warn("allocation failed", zap.String("run_id", id), zap.Error(err))
		return nil, err
	}

	r.cache.Add(id, run)
	r.metrics.ObserveRun(monitoring.OutcomeOK, len(run.Results), time.Since(start))
	r.logger.Info("allocation finished",
		zap.String("run_id", id),
		zap.Int("rows", len(run.Results)),
		zap.Duration("took", time.Since(start)))
	return run, nil
}

func (r *Runner) allocate(id string, input []byte) (*Run, error) {
	frame, err := ReadFrame(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	results, err := Allocate(frame, r.bundle.Preprocessor, r.bundle.Model)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return nil, err
	}
	return &Run{ID: id, Input: frame, Results: results, CSV: buf.Bytes()}, nil
}

// Lookup returns a cached run by id.
func (r *Runner) Lookup(id string) (*Run, bool) {
	return r.cache.Get(id)
}

// Digest identifies an upload by its content.
func Digest(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:16])
}
