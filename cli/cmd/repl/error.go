package repl

import (
	"errors"

	"github.com/ardnew/quse/lang"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")

	// ErrPreamble reports a token in the REPL preamble that is not part of a
	// declaration.
	ErrPreamble = lang.ErrSyntax.Class("preamble may contain only declarations")
)
