// Package fault contains the structured error taxonomy shared by the hive
// rules engine, the search agent and the UHP server. Every error carries a
// kind and a message, and errors chain so that the outermost message names
// the failing operation while the tail names the precise rule that failed.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error.
type Kind uint8

const (
	ParseError Kind = iota
	InvalidMove
	InvalidState
	OneHivePrinciple
	FreedomToMove
	ConstantContact
	ImmuneToPillbug
	InvalidOption
	InvalidTime
	GameNotStarted
	TooManyUndos
	MismatchError
	LogicError
	UnknownPiece
	UnrecognizedCommand
	IoError
	LoggerError
	InternalError
	PleaseOpenAGithubIssue
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case InvalidMove:
		return "InvalidMove"
	case InvalidState:
		return "InvalidState"
	case OneHivePrinciple:
		return "OneHivePrinciple"
	case FreedomToMove:
		return "FreedomToMove"
	case ConstantContact:
		return "ConstantContact"
	case ImmuneToPillbug:
		return "ImmuneToPillbug"
	case InvalidOption:
		return "InvalidOption"
	case InvalidTime:
		return "InvalidTime"
	case GameNotStarted:
		return "GameNotStarted"
	case TooManyUndos:
		return "TooManyUndos"
	case MismatchError:
		return "MismatchError"
	case LogicError:
		return "LogicError"
	case UnknownPiece:
		return "UnknownPiece"
	case UnrecognizedCommand:
		return "UnrecognizedCommand"
	case IoError:
		return "IoError"
	case LoggerError:
		return "LoggerError"
	case InternalError:
		return "InternalError"
	case PleaseOpenAGithubIssue:
		return "PleaseOpenAGithubIssue"
	default:
		return "?"
	}
}

// Error is a kinded error with an optional causal tail.
type Error struct {
	Kind Kind
	Msg  string

	cause error
}

// New returns a new error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf returns a new error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ForParse returns a ParseError for a value that is not a valid instance of
// the named type.
func ForParse(typename, s string) *Error {
	return Newf(ParseError, "'%v' is not a valid %v.", s, typename)
}

// Mismatch returns a MismatchError between a user-declared value and the
// computed one.
func Mismatch(typename string, expected, actual any) *Error {
	return Newf(MismatchError, "Mismatched %vs (expected %v, actual %v).", typename, expected, actual)
}

// Chain attaches err at the tail of base's cause chain and returns the
// combined error. The outermost message then names the failing context,
// with err as the deepest reason.
func Chain(err error, base *Error) *Error {
	out := &Error{Kind: base.Kind, Msg: base.Msg}
	switch cause := base.cause.(type) {
	case nil:
		out.cause = err
	case *Error:
		out.cause = Chain(err, cause)
	default:
		out.cause = err
	}
	return out
}

// ChainParse chains err under a ParseError for the named type.
func ChainParse(err error, typename, s string) *Error {
	return Chain(err, ForParse(typename, s))
}

// Critical wraps an error that indicates a broken internal invariant.
func Critical(err error) *Error {
	return Chain(err, New(PleaseOpenAGithubIssue, "Something has gone terribly wrong."))
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.cause != nil {
		sb.WriteString("\n\tdue to ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of the outermost fault error, if any.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var fe *Error
		if !errors.As(err, &fe) {
			return false
		}
		if fe.Kind == kind {
			return true
		}
		err = fe.cause
	}
	return false
}

// IsFatal reports whether the error should terminate the server.
func IsFatal(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case InternalError, IoError, PleaseOpenAGithubIssue:
		return true
	default:
		return false
	}
}
