package tl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry binds a constructor identifier to the factory that reads its fields.
type Entry struct {
	ID      uint32
	Name    string
	Factory Factory
}

// Builder collects registrations during process start-up. It is not safe for
// concurrent use; Build freezes the result into a Registry.
type Builder struct {
	entries map[uint32]Entry
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[uint32]Entry)}
}

// Register installs factory under id. Registering the same id with the same
// name again is a no-op and keeps the first factory. A different name under an
// existing id means two schema versions collided and returns a
// RegistrationConflict error.
func (b *Builder) Register(id uint32, name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &Error{Kind: KindRegistrationConflict, Offset: -1, ID: id, Message: "registration without a name"}
	}
	if factory == nil {
		return &Error{Kind: KindRegistrationConflict, Offset: -1, ID: id, Message: fmt.Sprintf("%s registered without a factory", name)}
	}
	if got, exists := b.entries[id]; exists {
		if got.Name == name {
			return nil
		}
		log.Error().
			Uint32("id", id).
			Str("registered", got.Name).
			Str("incoming", name).
			Msg("tl.Register constructor conflict")
		return &Error{
			Kind:    KindRegistrationConflict,
			Offset:  -1,
			ID:      id,
			Message: fmt.Sprintf("disallowed overwrite of %s with %s", got.Name, name),
		}
	}
	b.entries[id] = Entry{ID: id, Name: name, Factory: factory}
	return nil
}

// MustRegister is Register for generated tables, where a conflict is a build
// defect.
func (b *Builder) MustRegister(id uint32, name string, factory Factory) {
	if err := b.Register(id, name, factory); err != nil {
		panic(err)
	}
}

func (b *Builder) Len() int { return len(b.entries) }

// Build returns an immutable Registry holding a copy of the current entries.
// The Builder may keep being used; later registrations do not affect it.
func (b *Builder) Build() *Registry {
	entries := make(map[uint32]Entry, len(b.entries))
	for id, e := range b.entries {
		entries[id] = e
	}
	log.Debug().Int("entries", len(entries)).Msg("tl.Build registry ready")
	return &Registry{entries: entries}
}

// Registry is the read-only identifier table consulted by every decode. It is
// safe for concurrent use.
type Registry struct {
	entries map[uint32]Entry
}

func (r *Registry) Resolve(id uint32) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns every registration ordered by identifier.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
