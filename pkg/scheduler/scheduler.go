// Package scheduler runs natural language instructions on cron schedules.
// Each entry is dispatched through the agent as if a user had typed the
// instruction, so scheduled work goes through the same tool pipeline and
// event stream as interactive runs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/tool"
)

// Runner dispatches one instruction. The agent satisfies this.
type Runner interface {
	Run(ctx context.Context, instruction string) tool.Result
}

// Entry pairs a cron expression with the instruction to dispatch.
type Entry struct {
	Cron        string `json:"cron" mapstructure:"cron"`
	Instruction string `json:"instruction" mapstructure:"instruction"`
}

// Scheduler owns the cron loop.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  zerolog.Logger
	timeout time.Duration
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithRunTimeout caps how long one scheduled instruction may take.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

const defaultRunTimeout = 5 * time.Minute

// New creates a stopped scheduler. Entries run in their own goroutines
// so a slow instruction cannot delay the next tick of another entry.
func New(runner Runner, logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(),
		runner:  runner,
		logger:  logger,
		timeout: defaultRunTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers an entry. Standard 5-field cron expressions are accepted.
func (s *Scheduler) Add(entry Entry) error {
	if entry.Instruction == "" {
		return fmt.Errorf("schedule entry has no instruction")
	}

	_, err := s.cron.AddFunc(entry.Cron, func() {
		s.dispatch(entry)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", entry.Cron, err)
	}

	s.logger.Info().
		Str("cron", entry.Cron).
		Str("instruction", entry.Instruction).
		Msg("Schedule registered")
	return nil
}

// Start begins firing entries.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) dispatch(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	result := s.runner.Run(ctx, entry.Instruction)

	event := s.logger.Info()
	if !result.Success {
		event = s.logger.Warn().Str("error", result.Error)
	}
	event.
		Str("instruction", entry.Instruction).
		Bool("success", result.Success).
		Dur("duration", time.Since(started)).
		Msg("Scheduled instruction finished")
}
