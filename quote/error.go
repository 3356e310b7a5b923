package quote

import "github.com/ardnew/quse/lang"

// Errors returned by the entry points in addition to those of package lang.
var (
	ErrMissingSpan = lang.ErrSyntax.Class("expected span expression followed by `=>`")
	ErrSpanExpr    = lang.NewError("invalid span expression")
	ErrUnboundVar  = lang.NewError("unbound quote variable")
	ErrRepetition  = lang.NewError("quote repetition is not supported")
	ErrParse       = lang.NewError("failed to parse expansion")
	ErrEmpty       = lang.NewError("empty expansion")
)
