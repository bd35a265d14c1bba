package battery

import (
	"context"
	"fmt"
	"math"
	"time"

	"subarray/internal/analysis"
	"subarray/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner executes batteries.
type Runner struct {
	// Parallelism bounds how many cases run at once. Values < 1 mean 1.
	Parallelism int
	// Tolerance is the allowed difference between expected and actual
	// totals. Zero demands exact equality.
	Tolerance float64
	Logger    *zap.Logger
}

// Outcome captures execution of a single case.
type Outcome struct {
	CaseID    string
	Algorithm string // analyzer Name(), or the requested name on failure
	Result    analysis.Result
	Passed    bool
	Err       error
	Duration  time.Duration
}

// Run executes every case and returns outcomes in case order. Each case
// gets its own analyzer. Failing cases do not stop the run; only context
// cancellation does.
func (r *Runner) Run(ctx context.Context, b *Battery) ([]Outcome, error) {
	if b == nil || len(b.Cases) == 0 {
		return nil, nil
	}

	logger := logging.OrNop(r.Logger)
	tolerance := r.Tolerance
	if b.Tolerance != nil {
		tolerance = *b.Tolerance
	}

	outcomes := make([]Outcome, len(b.Cases))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(r.Parallelism, 1))

	for i := range b.Cases {
		if egCtx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = runCase(b.Cases[i], tolerance)
			o := outcomes[i]
			logger.Debug("battery case finished",
				zap.String("case", o.CaseID),
				zap.String("algorithm", o.Algorithm),
				zap.Bool("passed", o.Passed),
				zap.Int("start", o.Result.StartIndex()),
				zap.Int("end", o.Result.EndIndex()),
				zap.Float64("total", o.Result.Total()),
				zap.Duration("duration", o.Duration),
			)
			if o.Err != nil {
				logger.Warn("battery case failed", zap.String("case", o.CaseID), zap.Error(o.Err))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// Wait may succeed if cancellation landed between scheduling and the first Go.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(outcomes)
	logger.Info("battery finished", zap.Int("passed", s.Passed), zap.Int("failed", s.Failed))
	return outcomes, nil
}

func runCase(c Case, tolerance float64) Outcome {
	start := time.Now()
	out := Outcome{CaseID: c.ID, Algorithm: c.Algorithm, Result: analysis.NoResult()}

	a, err := analysis.New(c.Algorithm, c.Target)
	if err != nil {
		out.Err = err
		out.Duration = time.Since(start)
		return out
	}

	out.Algorithm = a.Name()
	out.Result = a.Analyze(c.Values)
	out.Err = check(c.Expect, out.Result, tolerance)
	out.Passed = out.Err == nil
	out.Duration = time.Since(start)
	return out
}

func check(want *Expectation, got analysis.Result, tolerance float64) error {
	if want == nil {
		return nil
	}
	if want.Start != got.StartIndex() || want.End != got.EndIndex() {
		return fmt.Errorf("range = [%d, %d], want [%d, %d]", got.StartIndex(), got.EndIndex(), want.Start, want.End)
	}
	if math.Abs(want.Total-got.Total()) > tolerance {
		return fmt.Errorf("total = %v, want %v (tolerance %v)", got.Total(), want.Total, tolerance)
	}
	return nil
}

// Summary counts passed and failed outcomes.
type Summary struct {
	Passed int
	Failed int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		if o.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// OK reports whether every outcome passed.
func (s Summary) OK() bool { return s.Failed == 0 }
