// internal/media/parser.go
package media

import (
	"context"
	"time"

	"github.com/valpere/mediasniff/internal/utils"
)

// Parser is the entry point of the discovery engine
type Parser struct {
	chain  *Chain
	logger utils.Logger
}

// NewParser wires the network strategy and the DOM fallback over pages
func NewParser(pages PageOpener, opts Options, recorder Recorder, logger utils.Logger) *Parser {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	opts = opts.withDefaults()
	prober := NewProber(opts.ProbeTimeout, opts.MinResourceSize, recorder)

	return NewParserWithStrategies([]Strategy{
		NewNetworkStrategy(pages, opts, recorder, logger),
		NewDOMStrategy(pages, prober, opts, logger),
	}, recorder, logger)
}

// NewParserWithStrategies builds a parser over an explicit strategy order
func NewParserWithStrategies(strategies []Strategy, recorder Recorder, logger utils.Logger) *Parser {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Parser{
		chain:  NewChain(strategies, recorder, logger),
		logger: logger,
	}
}

// Parse discovers media on pageURL. The URL is handed to the browser as is.
func (p *Parser) Parse(ctx context.Context, pageURL string) (*Result, error) {
	start := time.Now()
	log := p.logger.WithField("url", pageURL)

	found, err := p.chain.Discover(ctx, pageURL)
	if err != nil {
		log.Warnf("parse failed after %s: %v", time.Since(start), err)
		return nil, err
	}

	log.Infof("parse finished in %s with %d resources", time.Since(start), len(found))
	return &Result{Data: found}, nil
}
