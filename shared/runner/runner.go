package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"yt-transcriber/shared/monitoring"
)

// Metrics defines the common interface for agent metrics
type Metrics interface {
	// GetSummary returns a human-readable summary of the run
	GetSummary() string
}

// AgentEvents provides callbacks for monitoring agent execution
type AgentEvents struct {
	OnSuccess func(metrics Metrics, duration time.Duration)
	OnWarning func(err error)
}

// Agent defines the interface that all agents must implement
type Agent interface {
	Name() string
	Initialize() error
	RunOnce(ctx context.Context, events *AgentEvents) error
}

// Runner executes an agent exactly once per process.
type Runner struct {
	logger  zerolog.Logger
	monitor *monitoring.Monitor
	agent   Agent
}

func New(logger zerolog.Logger, agent Agent) *Runner {
	return &Runner{
		logger:  logger,
		monitor: monitoring.NewMonitor(logger),
		agent:   agent,
	}
}

func (r *Runner) Monitor() *monitoring.Monitor {
	return r.monitor
}

func (r *Runner) RunOnce(ctx context.Context) error {
	startTime := time.Now()
	agentName := r.agent.Name()

	if err := r.agent.Initialize(); err != nil {
		err = fmt.Errorf("failed to initialize %s: %w", agentName, err)
		r.monitor.RecordCriticalFailure(err, time.Since(startTime))
		return err
	}

	r.logger.Debug().Str("agent", agentName).Msg("Starting run")

	events := &AgentEvents{
		OnSuccess: func(metrics Metrics, duration time.Duration) {
			r.monitor.RecordSuccess(metrics.GetSummary(), duration)
		},
		OnWarning: func(err error) {
			r.monitor.RecordWarning(fmt.Errorf("%s: %w", agentName, err))
		},
	}

	if err := r.agent.RunOnce(ctx, events); err != nil {
		r.monitor.RecordCriticalFailure(fmt.Errorf("%s failed: %w", agentName, err), time.Since(startTime))
		return err
	}

	return nil
}
