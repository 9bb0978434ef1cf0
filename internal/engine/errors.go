package engine

import "fmt"

// The four error layers mirror spec.md §7: a failure in one layer never
// recovers into a fallback value in another. This mirrors the teacher's
// own layered AppError/SpreadsheetError split in sheet.go and cell.go,
// simplified down from gRPC-style codes to one Go type per layer since
// this engine has no RPC boundary to carry a code across.

// LoadError reports a failure reading or structurally validating the
// input file: missing file, inconsistent column counts across rows.
type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string { return fmt.Sprintf("load error: %s", e.Msg) }

// LexError reports a failure tokenizing a formula's source text.
type LexError struct {
	Msg string
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error: %s", e.Msg) }

// ParseError reports a failure building an expression tree from tokens.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %s", e.Msg) }

// EvalError reports a failure evaluating an expression tree against the
// table: division by zero, an out-of-bounds copy, an unknown reference.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return fmt.Sprintf("eval error: %s", e.Msg) }

func loadErrorf(format string, args ...any) error {
	return &LoadError{Msg: fmt.Sprintf(format, args...)}
}

func lexErrorf(format string, args ...any) error {
	return &LexError{Msg: fmt.Sprintf(format, args...)}
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func evalErrorf(format string, args ...any) error {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}
