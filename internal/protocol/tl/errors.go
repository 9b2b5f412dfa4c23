package tl

import (
	"errors"
	"fmt"
)

// Kind is a stable failure category. Transports branch on Kind (or the matching
// sentinel via errors.Is), never on message text.
type Kind string

const (
	KindMalformedData        Kind = "MalformedData"
	KindUnknownConstructor   Kind = "UnknownConstructor"
	KindDecodeFailure        Kind = "DecodeFailure"
	KindRegistrationConflict Kind = "RegistrationConflict"
	KindInvalidValue         Kind = "InvalidValue"
)

var (
	ErrMalformedData        = errors.New("tl: malformed data")
	ErrUnknownConstructor   = errors.New("tl: unknown constructor")
	ErrDecodeFailure        = errors.New("tl: decode failure")
	ErrRegistrationConflict = errors.New("tl: registration conflict")
	ErrInvalidValue         = errors.New("tl: invalid value")
)

var kindSentinels = map[Kind]error{
	KindMalformedData:        ErrMalformedData,
	KindUnknownConstructor:   ErrUnknownConstructor,
	KindDecodeFailure:        ErrDecodeFailure,
	KindRegistrationConflict: ErrRegistrationConflict,
	KindInvalidValue:         ErrInvalidValue,
}

// Error is the structured error returned by every codec failure path.
//
// Offset is the reader position where the failing read started (-1 when the
// failure is not tied to a buffer). ID is the constructor involved, if any.
type Error struct {
	Kind    Kind
	Offset  int
	ID      uint32
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("tl: %s", e.Message)
	if e.ID != 0 {
		msg += fmt.Sprintf(" id=%#08x", e.ID)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" offset=%d", e.Offset)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

func malformed(offset int, format string, args ...any) error {
	return &Error{Kind: KindMalformedData, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func unknownConstructor(offset int, id uint32) error {
	return &Error{Kind: KindUnknownConstructor, Offset: offset, ID: id, Message: "unknown constructor"}
}

func decodeFailure(offset int, msg string, cause error) error {
	return &Error{Kind: KindDecodeFailure, Offset: offset, ID: GzipPackedID, Message: msg, Cause: cause}
}

// InvalidValue builds an encode-side error for values that cannot be written.
func InvalidValue(format string, args ...any) error {
	return &Error{Kind: KindInvalidValue, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

// Malformed builds a MalformedData error at offset. Factories outside this
// package use it to reject structurally valid bytes that break a type rule.
func Malformed(offset int, format string, args ...any) error {
	return malformed(offset, format, args...)
}
