package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/rs/zerolog/log"
)

//go:embed mtproto.tl
var systemSchema string

var defaultSchema = sync.OnceValue(func() *Schema {
	s, err := Parse(strings.NewReader(systemSchema))
	if err != nil {
		panic(fmt.Sprintf("schema: embedded mtproto.tl: %v", err))
	}
	return s
})

// Default returns the embedded MTProto system schema.
func Default() *Schema { return defaultSchema() }

// Register adds a dynamic factory for every combinator in s. Constructors
// already registered under the same name keep their concrete factory.
func Register(b *tl.Builder, s *Schema) error {
	before := b.Len()
	for _, c := range s.Combinators {
		if err := b.Register(c.ID, c.Name, s.factory(c)); err != nil {
			return fmt.Errorf("schema: register %s: %w", c.Name, err)
		}
	}
	log.Debug().
		Int("layer", s.Layer).
		Int("combinators", len(s.Combinators)).
		Int("added", b.Len()-before).
		Msg("schema.Register done")
	return nil
}
