// Package compileerr defines the error taxonomy produced by every stage of
// the compiler, from tokenizing through assembly emission.
package compileerr

import (
	"fmt"
	"strings"
)

// Kind identifies which member of the compiler's error taxonomy an Error
// belongs to.
type Kind string

const (
	Syntax                    Kind = "SyntaxError"
	UnknownSymbol             Kind = "UnknownSymbol"
	DuplicateDecl             Kind = "DuplicateDecl"
	VariableEvalAtCompileTime Kind = "VariableEvalAtCompileTime"
	RedefineConstValue        Kind = "RedefineConstValue"
	InvalidBreak              Kind = "InvalidBreak"
	InvalidContinue           Kind = "InvalidContinue"
	PushBlockFailed           Kind = "PushBlockFailed"
	PushInstructionFailed     Kind = "PushInstructionFailed"
	SysError                  Kind = "SysError"
)

// SourceLocation is a position in the original SysY source. The zero value
// means "no location" and is never rendered.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) known() bool {
	return l.Line > 0
}

// Error is the single error type surfaced by every compiler stage: lexer,
// parser, semantic lowering, and code generation all produce one of these
// instead of ad hoc fmt.Errorf strings.
type Error struct {
	Kind     Kind
	Message  string
	Location SourceLocation
	Source   string
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.known() {
		sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
		if e.Source != "" {
			sb.WriteString(fmt.Sprintf("\n  %d | %s", e.Location.Line, e.Source))
			if e.Location.Column > 0 {
				sb.WriteString(fmt.Sprintf("\n  %s^", strings.Repeat(" ", len(fmt.Sprintf("%d | ", e.Location.Line))+e.Location.Column-1)))
			}
		}
	}
	return sb.String()
}

// New builds a located error of the given kind.
func New(kind Kind, message string, file string, line, column int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Location: SourceLocation{
			File:   file,
			Line:   line,
			Column: column,
		},
	}
}

// Unlocated builds an error for the ambient IR/codegen layers, which the
// spec scopes out of source-location-aware diagnostics.
func Unlocated(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithSource attaches the offending source line for caret rendering.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

func NewSyntaxError(message, file string, line, column int) *Error {
	return New(Syntax, message, file, line, column)
}
