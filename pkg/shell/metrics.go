package shell

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbeaumont/quarterdeck/pkg/resolve"
)

type metrics struct {
	commands    prometheus.Counter
	failures    *prometheus.CounterVec
	completions prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quarterdeck_commands_total",
			Help: "Total command lines submitted.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quarterdeck_resolution_failures_total",
			Help: "Total submitted lines that failed to resolve, by failure kind.",
		}, []string{"kind"}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quarterdeck_completion_requests_total",
			Help: "Total tab-completion and contextual-help requests served.",
		}),
	}
	reg.MustRegister(m.commands, m.failures, m.completions)
	return m
}

// failureKind maps a resolution error to its counter label. For joined
// errors the case order below decides which kind wins, since errors.As
// searches the whole join.
func failureKind(err error) string {
	var (
		unknown    *resolve.UnknownTokenError
		ambiguous  *resolve.AmbiguousTokenError
		incomplete *resolve.IncompleteCommandError
		position   *resolve.PositionMismatchError
		missingKV  *resolve.MissingKeyValueError
		invalid    *resolve.InvalidValueError
		conflict   *resolve.GroupConflictError
		unknownOpt *resolve.UnknownOptionError
		required   *resolve.MissingRequiredError
	)
	switch {
	case errors.As(err, &unknown):
		return "unknown_token"
	case errors.As(err, &ambiguous):
		return "ambiguous_token"
	case errors.As(err, &unknownOpt):
		return "unknown_option"
	case errors.As(err, &position):
		return "position_mismatch"
	case errors.As(err, &missingKV):
		return "missing_key_value"
	case errors.As(err, &invalid):
		return "invalid_value"
	case errors.As(err, &conflict):
		return "group_conflict"
	case errors.As(err, &required):
		return "missing_required"
	case errors.As(err, &incomplete):
		return "incomplete_command"
	default:
		return "handler"
	}
}
