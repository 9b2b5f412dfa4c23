package protocol

import (
	"fmt"

	"github.com/danmuck/tlwire/internal/protocol/mtproto"
	"github.com/danmuck/tlwire/internal/protocol/schema"
	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/rs/zerolog/log"
)

// BuildRegistry assembles the constructor registry: engine constructors
// first, then the concrete service messages, then each schema in order.
// Later layers only add constructors the earlier ones do not know.
func BuildRegistry(schemas ...*schema.Schema) (*tl.Registry, error) {
	b := tl.NewBuilder()
	if err := tl.RegisterCore(b); err != nil {
		return nil, fmt.Errorf("protocol: register core: %w", err)
	}
	if err := mtproto.Register(b); err != nil {
		return nil, fmt.Errorf("protocol: register service messages: %w", err)
	}
	for i, s := range schemas {
		if s == nil {
			continue
		}
		if err := schema.Register(b, s); err != nil {
			return nil, fmt.Errorf("protocol: register schema %d (layer %d): %w", i, s.Layer, err)
		}
	}
	reg := b.Build()
	log.Info().
		Int("schemas", len(schemas)).
		Int("constructors", reg.Len()).
		Msg("protocol.BuildRegistry ready")
	return reg, nil
}

// DefaultRegistry is BuildRegistry over the embedded system schema.
func DefaultRegistry() (*tl.Registry, error) {
	return BuildRegistry(schema.Default())
}
