// Package version computes the next upload version for a project's predict
// namespace. Resolution never fails: when every strategy errors the
// resolver answers 1. Versions are not reserved, so two callers may get the
// same number; storage overwrite-by-key absorbs the collision.
package version

import (
	"context"

	"github.com/dmitrijs2005/predictupload/internal/logging"
)

// FirstVersion is returned when nothing better is known.
const FirstVersion = 1

// Strategy computes a candidate next version or reports why it could not.
type Strategy interface {
	Name() string
	NextVersion(ctx context.Context, projectID string) (int, error)
}

type Resolver struct {
	strategies []Strategy
	logger     logging.Logger
}

func NewResolver(logger logging.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// Next tries each strategy in order and returns the first usable answer,
// or FirstVersion when all of them fail.
func (r *Resolver) Next(ctx context.Context, projectID string) int {
	for _, s := range r.strategies {
		v, err := s.NextVersion(ctx, projectID)
		if err != nil {
			r.logger.Warn(ctx, "version strategy failed", "strategy", s.Name(), "project_id", projectID, "error", err)
			continue
		}
		if v < FirstVersion {
			r.logger.Warn(ctx, "version strategy returned invalid version", "strategy", s.Name(), "version", v)
			continue
		}
		r.logger.Debug(ctx, "resolved version", "strategy", s.Name(), "project_id", projectID, "version", v)
		return v
	}
	return FirstVersion
}

// Names lists the strategies in the order they are tried.
func (r *Resolver) Names() []string {
	out := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Name()
	}
	return out
}
