// Package quote provides the entry points that expand use declarations and
// hand the result to a quoting step.
//
// [Quote] and [QuoteSpanned] return the rewritten tokens with quote
// variables (#name) interpolated. [Parse] and [ParseSpanned] additionally
// run a [Parser] over them. The spanned flavours expect the input to begin
// with a span expression followed by "=>":
//
//	line(12) => # use std::rc::Rc; Rc::clone(&#this)
//
// Span expressions are evaluated by expr-lang with call_site, mixed_site,
// pos(line, column) and line(n) in scope. They must produce a position or a
// positive line number.
//
// Expansions are cached per source and configuration; see [ClearCache].
package quote
