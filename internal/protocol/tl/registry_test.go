package tl

import (
	"errors"
	"sync"
	"testing"

	"github.com/danmuck/tlwire/internal/testutil/testlog"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotentForSameName(t *testing.T) {
	testlog.Start(t)

	b := NewBuilder()
	require.NoError(t, b.Register(noteID, "test.note", readNote))
	require.NoError(t, b.Register(noteID, "test.note", readSample))
	require.Equal(t, 1, b.Len())

	enc := mustEncode(t, &note{Text: "kept"})
	obj, _, err := Decode(b.Build(), enc)
	require.NoError(t, err)
	require.Equal(t, "kept", obj.(*note).Text, "first factory must stay installed")
}

func TestRegisterConflict(t *testing.T) {
	testlog.Start(t)

	b := NewBuilder()
	require.NoError(t, b.Register(noteID, "test.note", readNote))
	err := b.Register(noteID, "test.other", readNote)
	require.ErrorIs(t, err, ErrRegistrationConflict)

	var te *Error
	require.True(t, errors.As(err, &te))
	require.Equal(t, noteID, te.ID)
	require.Contains(t, te.Error(), "test.note")
	require.Contains(t, te.Error(), "test.other")

	require.Panics(t, func() {
		b.MustRegister(noteID, "test.other", readNote)
	})
}

func TestRegisterRejectsIncompleteEntries(t *testing.T) {
	testlog.Start(t)

	b := NewBuilder()
	require.ErrorIs(t, b.Register(1, " ", readNote), ErrRegistrationConflict)
	require.ErrorIs(t, b.Register(1, "x", nil), ErrRegistrationConflict)
	require.Zero(t, b.Len())
}

func TestBuildIsolatesRegistry(t *testing.T) {
	testlog.Start(t)

	b := NewBuilder()
	b.MustRegister(noteID, "test.note", readNote)
	first := b.Build()
	b.MustRegister(sampleID, "test.sample", readSample)
	second := b.Build()

	_, ok := first.Resolve(sampleID)
	require.False(t, ok, "registrations after Build must not leak into it")
	_, ok = second.Resolve(sampleID)
	require.True(t, ok)
	require.Equal(t, 1, first.Len())
	require.Equal(t, 2, second.Len())
}

func TestRegistryEntriesSorted(t *testing.T) {
	testlog.Start(t)

	entries := testRegistry(t).Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		require.Less(t, entries[i-1].ID, entries[i].ID)
	}

	var nilReg *Registry
	_, ok := nilReg.Resolve(1)
	require.False(t, ok)
	require.Zero(t, nilReg.Len())
	require.Nil(t, nilReg.Entries())
}

func TestRegistryConcurrentDecode(t *testing.T) {
	testlog.Start(t)

	reg := testRegistry(t)
	enc := mustEncode(t, Wrap(fullSample()))
	want := fullSample()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				obj, _, err := Decode(reg, enc)
				if err != nil {
					errs <- err
					return
				}
				if !Equal(obj, want) {
					errs <- errors.New("decoded value differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent decode: %v", err)
	}
}
