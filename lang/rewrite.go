package lang

import (
	"context"
	"log/slog"

	"github.com/edwingeng/deque"

	"github.com/ardnew/quse/lang/token"
)

type rewriteState uint8

const (
	stateNormal rewriteState = iota
	// A joint colon began a path separator; identifiers are qualified.
	stateAfterJointColon
	// A pound sign preceded the token; it is spliced by the quoting step.
	stateAfterEscape
	// A namespacing escape is pending.
	stateEscape
	// A namespacing escape and a lifetime quote are pending.
	stateEscapeQuote
)

// Rewrite replaces every bare identifier of stream that is bound in table
// with its path. Identifiers following a path separator or a pound sign are
// left alone. Groups are rewritten with fresh state and keep their
// delimiters; none-delimited groups are spliced inline.
//
// With [WithNamespacer], escaped identifiers ($name) and lifetimes ($'name)
// are also renamed and $$ collapses to $.
func Rewrite(
	ctx context.Context,
	stream token.Stream,
	table *Table,
	opts ...Option,
) token.Stream {
	o := makeOptions(opts...)
	r := &rewriter{table: table, ns: o.namespacer, work: deque.NewDeque()}

	out := r.run(stream)

	o.logger.TraceContext(ctx, "rewrite complete",
		slog.Int("tokens", stream.Count()),
		slog.Int("substituted", r.substituted),
		slog.Int("namespaced", r.namespaced),
		slog.Int("groups", r.groups),
		slog.Int("max_depth", r.maxDepth))

	return out
}

type rewriter struct {
	table *Table
	ns    *Namespacer
	work  deque.Deque

	substituted int
	namespaced  int
	groups      int
	maxDepth    int
}

// rewriteFrame is one nesting level being rewritten.
type rewriteFrame struct {
	in    token.Stream
	out   token.Stream
	held  token.Stream // escape tokens not yet emitted
	group token.Token  // group being rebuilt; unused at the root
	i     int
	state rewriteState
}

func (f *rewriteFrame) emit(toks ...token.Token) {
	f.out = append(f.out, toks...)
}

func (f *rewriteFrame) flush() {
	f.out = append(f.out, f.held...)
	f.held = nil
}

func (r *rewriter) run(stream token.Stream) token.Stream {
	r.work.PushBack(&rewriteFrame{in: stream, out: make(token.Stream, 0, len(stream))})

	for {
		f := r.work.Back().(*rewriteFrame)

		if f.i == len(f.in) {
			f.flush()
			r.work.PopBack()

			if r.work.Empty() {
				return f.out
			}

			parent := r.work.Back().(*rewriteFrame)
			if f.group.Delim == token.None {
				parent.emit(f.out...)
			} else {
				parent.emit(token.NewGroup(f.group.Delim, f.out, f.group.Pos))
			}

			continue
		}

		tok := f.in[f.i]
		f.i++

		if tok.Kind == token.Group {
			f.flush()
			f.state = stateNormal

			r.groups++
			r.maxDepth = max(r.maxDepth, r.work.Len())
			r.work.PushBack(&rewriteFrame{
				in:    tok.Stream,
				out:   make(token.Stream, 0, len(tok.Stream)),
				group: tok,
			})

			continue
		}

		r.step(f, tok)
	}
}

func (r *rewriter) step(f *rewriteFrame, tok token.Token) {
	if r.ns != nil && r.namespace(f, tok) {
		return
	}

	switch {
	case f.state == stateNormal && tok.IsIdent():
		if b, ok := r.table.Lookup(tok.Text); ok {
			r.substituted++

			f.emit(b.Path.Tokens().Respan(tok.Pos)...)

			return
		}

	case tok.IsPunct(':') && tok.Spacing == token.Joint:
		f.state = stateAfterJointColon

	case tok.IsPunct(':'):
		// Second colon of a separator.

	case tok.IsPunct('#'):
		f.state = stateAfterEscape

	default:
		f.state = stateNormal
	}

	f.emit(tok)
}

// namespace runs the namespacing pass over tok, reporting whether it
// consumed the token.
func (r *rewriter) namespace(f *rewriteFrame, tok token.Token) bool {
	switch f.state {
	case stateEscape:
		switch {
		case tok.IsIdent():
			r.namespaced++

			f.held = nil
			f.state = stateNormal
			f.emit(r.ns.rename(tok))

			return true

		case tok.IsPunct('\''):
			f.held = append(f.held, tok)
			f.state = stateEscapeQuote

			return true

		case tok.IsPunct(EscapeChar):
			f.held = nil
			f.state = stateNormal
			f.emit(tok)

			return true
		}

		f.flush()
		f.state = stateNormal

	case stateEscapeQuote:
		if tok.IsIdent() {
			r.namespaced++

			quote := f.held[len(f.held)-1]
			f.held = nil
			f.state = stateNormal
			f.emit(quote, r.ns.rename(tok))

			return true
		}

		f.flush()
		f.state = stateNormal

	case stateAfterEscape:
		return false
	}

	if tok.IsPunct(EscapeChar) {
		f.held = token.Stream{tok}
		f.state = stateEscape

		return true
	}

	return false
}
