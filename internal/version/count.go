package version

import (
	"context"

	"github.com/dmitrijs2005/predictupload/internal/upload"
)

// Counter reports how many versions exist under a namespace.
type Counter interface {
	VersionCount(ctx context.Context, namespace string) (int, error)
}

// CountStrategy answers count + 1 for the project's predict namespace.
type CountStrategy struct {
	counter Counter
}

func NewCountStrategy(c Counter) *CountStrategy {
	return &CountStrategy{counter: c}
}

func (s *CountStrategy) Name() string { return "count" }

func (s *CountStrategy) NextVersion(ctx context.Context, projectID string) (int, error) {
	n, err := s.counter.VersionCount(ctx, upload.Namespace(projectID))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}
