package monitoring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Monitor records the outcome of a run.
type Monitor struct {
	logger         zerolog.Logger
	lastRunSuccess bool
	lastRunTime    time.Time
	warnings       []error
}

func NewMonitor(logger zerolog.Logger) *Monitor {
	return &Monitor{logger: logger}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()

	m.logger.Info().Dur("took", duration).Msgf("Run completed successfully - %s", summary)
}

// RecordWarning notes a non-fatal problem. It does not change the run status.
func (m *Monitor) RecordWarning(err error) {
	m.warnings = append(m.warnings, err)
	m.logger.Warn().Err(err).Msg("Non-fatal failure")
}

// RecordCriticalFailure marks the run failed. The error itself is shown to the
// user by the caller, so it is only logged at debug level.
func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()

	m.logger.Debug().Err(err).Dur("took", duration).Msg("Run failed")
}

func (m *Monitor) Succeeded() bool {
	return !m.lastRunTime.IsZero() && m.lastRunSuccess
}

func (m *Monitor) Warnings() []error {
	return m.warnings
}

func (m *Monitor) GetStatusSummary() string {
	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	status := "succeeded"
	if !m.lastRunSuccess {
		status = "failed"
	}
	if len(m.warnings) > 0 {
		return fmt.Sprintf("Last run %s at %s with %d warning(s)", status, m.lastRunTime.Format("15:04:05"), len(m.warnings))
	}
	return fmt.Sprintf("Last run %s at %s", status, m.lastRunTime.Format("15:04:05"))
}
