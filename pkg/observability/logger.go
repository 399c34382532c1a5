package observability

import (
	"context"
	"log/slog"

	"github.com/Sumatoshi-tech/tangotree/pkg/bst"
)

const (
	attrTree      = "tree"
	attrEventName = "event"
	attrFocus     = "focus"
	attrHighlight = "highlight"
)

// LogObserver writes every tree event as a structured debug record. It is
// meant for tracing small trees while debugging restructuring logic; on hot
// paths prefer MetricsObserver.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer logging to the given logger with a
// tree name attached to every record.
func NewLogObserver(logger *slog.Logger, tree string) *LogObserver {
	return &LogObserver{
		logger: logger.With(slog.String(attrTree, tree)),
	}
}

// TreeEvent implements [bst.Observer].
func (lo *LogObserver) TreeEvent(event bst.Event, focus uint32, highlight []uint32) {
	if !lo.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		slog.String(attrEventName, string(event)),
		slog.Uint64(attrFocus, uint64(focus)),
	}

	if len(highlight) > 0 {
		nodes := make([]uint64, len(highlight))
		for i, h := range highlight {
			nodes[i] = uint64(h)
		}

		attrs = append(attrs, slog.Any(attrHighlight, nodes))
	}

	lo.logger.Debug("tree event", attrs...)
}
