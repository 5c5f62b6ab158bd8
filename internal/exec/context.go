// Package exec plans, packs and runs compiled expression programs across
// concurrent execution lanes.
package exec

import (
	"github.com/colexpr/colexpr/internal/config"
	"github.com/colexpr/colexpr/internal/log"
)

// Context owns the resources one compute call runs against: an allocator
// handle and an execution stream. Both are passed explicitly through the
// context rather than reached through process-wide defaults.
type Context struct {
	cfg    *config.EvalConfig
	alloc  *Arena
	stream *Stream
	logger log.Logger
}

// NewContext creates an execution context with its own allocator and
// stream. A nil config selects defaults.
func NewContext(cfg *config.EvalConfig) (*Context, error) {
	if cfg == nil {
		cfg = config.DefaultEvalConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Context{
		cfg:    cfg,
		alloc:  &Arena{},
		stream: NewStream(),
		logger: log.Default(),
	}, nil
}

// Allocator returns the context's memory allocator handle.
func (ec *Context) Allocator() *Arena { return ec.alloc }

// Stream returns the context's execution stream.
func (ec *Context) Stream() *Stream { return ec.stream }

// Close releases the context's stream. The context must not be used after
// Close.
func (ec *Context) Close() {
	ec.stream.Close()
}
