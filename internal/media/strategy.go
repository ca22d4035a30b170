// internal/media/strategy.go
package media

import (
	"context"
	"fmt"

	"github.com/valpere/mediasniff/internal/utils"
)

// Strategy finds media resources on a page
type Strategy interface {
	Name() string
	Discover(ctx context.Context, pageURL string) ([]MediaResource, error)
}

// Chain runs strategies in order. The first non-empty result wins; an error
// stops the chain without trying later strategies.
type Chain struct {
	strategies []Strategy
	recorder   Recorder
	logger     utils.Logger
}

func NewChain(strategies []Strategy, recorder Recorder, logger utils.Logger) *Chain {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Chain{strategies: strategies, recorder: recorder, logger: logger}
}

func (c *Chain) Discover(ctx context.Context, pageURL string) ([]MediaResource, error) {
	for _, s := range c.strategies {
		found, err := s.Discover(ctx, pageURL)
		if err != nil {
			c.recorder.RecordStrategyResult(s.Name(), OutcomeError, 0)
			return nil, fmt.Errorf("%s strategy: %w", s.Name(), err)
		}

		if len(found) > 0 {
			c.recorder.RecordStrategyResult(s.Name(), OutcomeHit, len(found))
			c.logger.Infof("%s strategy found %d resources", s.Name(), len(found))
			return found, nil
		}

		c.recorder.RecordStrategyResult(s.Name(), OutcomeEmpty, 0)
		c.logger.Debugf("%s strategy found nothing", s.Name())
	}
	return []MediaResource{}, nil
}
