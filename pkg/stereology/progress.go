package stereology

import "github.com/rs/zerolog"

// Reporter receives status and progress notifications during long-running
// passes. Implementations are pure output sinks; nothing is read back from
// them. A nil Reporter anywhere in this package behaves like NopReporter.
type Reporter interface {
	// Status reports a human-readable description of the current stage.
	Status(msg string)

	// Progress reports completion of current out of total work units.
	Progress(current, total int)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) Status(string)     {}
func (NopReporter) Progress(int, int) {}

// LogReporter forwards notifications to a zerolog logger: stages at info
// level, progress ticks at debug level.
type LogReporter struct {
	Logger zerolog.Logger
}

func (r LogReporter) Status(msg string) {
	r.Logger.Info().Msg(msg)
}

func (r LogReporter) Progress(current, total int) {
	r.Logger.Debug().Int("current", current).Int("total", total).Msg("progress")
}

func orNop(r Reporter) Reporter {
	if r == nil {
		return NopReporter{}
	}
	return r
}
