package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// ioWorkerMultiplier is the multiplier for I/O workers relative to CPU count.
const ioWorkerMultiplier = 2

// Executor runs validators and collects their results.
type Executor interface {
	// Execute runs validators and returns validation errors plus any
	// additional context strings from passing validators.
	Execute(
		ctx context.Context,
		hookCtx *hook.Context,
		validators []validator.Validator,
	) ([]*ValidationError, []string)
}

// safeValidate runs one validator, converting a panic into a nil result.
// A panicking validator must not take the whole invocation down.
func safeValidate(
	ctx context.Context,
	log logger.Logger,
	v validator.Validator,
	hookCtx *hook.Context,
) (result *validator.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("validator panicked",
				"validator", v.Name(),
				"panic", fmt.Sprintf("%v", r),
			)

			result = nil
		}
	}()

	return v.Validate(ctx, hookCtx)
}

// collectResult converts a validator result into errors/contexts slices.
func collectResult(
	v validator.Validator,
	result *validator.Result,
	errors *[]*ValidationError,
	contexts *[]string,
) {
	if result == nil {
		return
	}

	if !result.Passed {
		*errors = append(*errors, &ValidationError{
			Validator:   v.Name(),
			Message:     result.Message,
			Details:     result.Details,
			ShouldBlock: result.ShouldBlock,
		})
	}

	if result.Context != "" {
		*contexts = append(*contexts, result.Context)
	}
}

// SequentialExecutor runs validators one at a time in order.
type SequentialExecutor struct {
	logger logger.Logger
}

// NewSequentialExecutor creates a new SequentialExecutor.
func NewSequentialExecutor(log logger.Logger) *SequentialExecutor {
	return &SequentialExecutor{logger: log}
}

// Execute runs validators sequentially in registration order.
func (e *SequentialExecutor) Execute(
	ctx context.Context,
	hookCtx *hook.Context,
	validators []validator.Validator,
) ([]*ValidationError, []string) {
	errors := make([]*ValidationError, 0, len(validators))

	var contexts []string

	for _, v := range validators {
		select {
		case <-ctx.Done():
			return errors, contexts
		default:
		}

		result := safeValidate(ctx, e.logger, v, hookCtx)
		collectResult(v, result, &errors, &contexts)
	}

	return errors, contexts
}

// ParallelExecutorConfig holds configuration for parallel execution.
type ParallelExecutorConfig struct {
	// MaxCPUWorkers is the maximum number of concurrent CPU-bound validators.
	// Default: runtime.NumCPU()
	MaxCPUWorkers int

	// MaxIOWorkers is the maximum number of concurrent I/O-bound validators.
	// Default: runtime.NumCPU() * 2
	MaxIOWorkers int
}

// DefaultParallelConfig returns the default parallel execution configuration.
func DefaultParallelConfig() *ParallelExecutorConfig {
	numCPU := runtime.NumCPU()

	return &ParallelExecutorConfig{
		MaxCPUWorkers: numCPU,
		MaxIOWorkers:  numCPU * ioWorkerMultiplier,
	}
}

// ParallelExecutor runs validators concurrently using category-specific
// worker pools. Results are reassembled in registration order so parallel
// execution is observationally identical to sequential execution.
type ParallelExecutor struct {
	logger  logger.Logger
	cpuPool *semaphore.Weighted
	ioPool  *semaphore.Weighted
}

// NewParallelExecutor creates a new ParallelExecutor with the given configuration.
func NewParallelExecutor(log logger.Logger, cfg *ParallelExecutorConfig) *ParallelExecutor {
	if cfg == nil {
		cfg = DefaultParallelConfig()
	}

	return &ParallelExecutor{
		logger:  log,
		cpuPool: semaphore.NewWeighted(int64(cfg.MaxCPUWorkers)),
		ioPool:  semaphore.NewWeighted(int64(cfg.MaxIOWorkers)),
	}
}

// Execute runs validators concurrently, using category-specific worker pools.
func (e *ParallelExecutor) Execute(
	ctx context.Context,
	hookCtx *hook.Context,
	validators []validator.Validator,
) ([]*ValidationError, []string) {
	if len(validators) == 0 {
		return nil, nil
	}

	results := make([]*validator.Result, len(validators))

	var wg sync.WaitGroup

	for i, v := range validators {
		pool := e.cpuPool
		if v.Category() == validator.CategoryIO {
			pool = e.ioPool
		}

		if err := pool.Acquire(ctx, 1); err != nil {
			// Context cancelled; skip remaining validators.
			break
		}

		wg.Add(1)

		go func(idx int, val validator.Validator) {
			defer wg.Done()
			defer pool.Release(1)

			results[idx] = safeValidate(ctx, e.logger, val, hookCtx)
		}(i, v)
	}

	wg.Wait()

	// Reassemble in registration order for deterministic output.
	errors := make([]*ValidationError, 0, len(validators))

	var contexts []string

	for i, v := range validators {
		collectResult(v, results[i], &errors, &contexts)
	}

	return errors, contexts
}
