package lang

import (
	"context"
	"log/slog"

	"github.com/edwingeng/deque"

	"github.com/ardnew/quse/lang/token"
)

const (
	expectIdent = "identifier"
	endOfInput  = "end of input"
)

// ParseString lexes s and parses its leading declarations.
func ParseString(
	ctx context.Context,
	s string,
	opts ...Option,
) ([]Binding, token.Stream, error) {
	stream, err := Lex(s)
	if err != nil {
		return nil, nil, err
	}

	return ParseDeclarations(ctx, stream, opts...)
}

// ParseDeclarations consumes every declaration at the head of stream and
// returns the bindings they declare, in order, along with the remaining
// tokens.
//
// Declarations are recognized while the next tokens are the configured
// [Introducer]. Each declaration is an optional root separator followed by a
// segment chain and a terminating semicolon:
//
//	# use a::b::{self, c as d, e::{f, #g}};
func ParseDeclarations(
	ctx context.Context,
	stream token.Stream,
	opts ...Option,
) ([]Binding, token.Stream, error) {
	o := makeOptions(opts...)
	p := &declParser{work: deque.NewDeque()}
	i, count := 0, 0

	for {
		n := o.introducer.match(stream[i:])
		if n == 0 {
			break
		}

		cur := &cursor{toks: stream, i: i + n, end: endPos(stream)}
		if cur.atSep() {
			cur.skip(2)
		}

		if err := p.parseChain(cur); err != nil {
			return nil, nil, err
		}

		if semi, ok := cur.peek(); !ok || !semi.IsPunct(';') {
			return nil, nil, ErrUnterminatedDeclaration.
				WithPosition(cur.pos()).
				Found(cur.found()).
				Expecting(Quote(";"))
		}

		i = cur.i + 1
		count++
	}

	o.logger.TraceContext(ctx, "declarations parsed",
		slog.Int("declarations", count),
		slog.Int("bindings", len(p.bindings)),
		slog.Int("tail", len(stream)-i))

	return p.bindings, stream[i:], nil
}

// ParsePath parses stream as a single path: an optional root separator and
// segments joined by separators, with nothing following.
func ParsePath(stream token.Stream) (Path, error) {
	cur := &cursor{toks: stream, end: endPos(stream)}
	f := &frame{cur: cur}

	if cur.atSep() {
		cur.skip(2)
	}

	var path Path

	for {
		seg, err := f.segment()
		if err != nil {
			return Path{}, err
		}

		path.Push(seg)

		if cur.done() {
			return path, nil
		}

		if !cur.atSep() {
			return Path{}, ErrTrailingTokens.
				WithPosition(cur.pos()).
				Found(cur.found()).
				Expecting(Quote("::"), endOfInput)
		}

		cur.skip(2)
	}
}

func (i Introducer) match(s token.Stream) int {
	switch i {
	case IntroducerBare:
		if len(s) > 0 && s[0].IsIdent("use") {
			return 1
		}

	default:
		if len(s) > 1 && s[0].IsPunct('#') && s[1].IsIdent("use") {
			return 2
		}
	}

	return 0
}

func endPos(s token.Stream) token.Pos {
	if len(s) == 0 {
		return token.Pos{}
	}

	return s[len(s)-1].Pos
}

// cursor walks one level of a token stream.
type cursor struct {
	toks  token.Stream
	i     int
	end   token.Pos // reported once the stream is exhausted
	inner bool
}

func (c *cursor) done() bool { return c.i >= len(c.toks) }

func (c *cursor) peek() (token.Token, bool) {
	return c.peekAt(0)
}

func (c *cursor) peekAt(n int) (token.Token, bool) {
	if c.i+n >= len(c.toks) {
		return token.Token{}, false
	}

	return c.toks[c.i+n], true
}

func (c *cursor) next() token.Token {
	t := c.toks[c.i]
	c.i++

	return t
}

func (c *cursor) skip(n int) { c.i += n }

// atSep reports whether the cursor is at a "::" path separator.
func (c *cursor) atSep() bool {
	first, ok := c.peekAt(0)
	if !ok || !first.IsPunct(':') || first.Spacing != token.Joint {
		return false
	}

	second, ok := c.peekAt(1)

	return ok && second.IsPunct(':')
}

func (c *cursor) pos() token.Pos {
	if t, ok := c.peek(); ok {
		return t.Pos
	}

	return c.end
}

func (c *cursor) found() string {
	if t, ok := c.peek(); ok {
		return t.Describe()
	}

	if c.inner {
		return Quote("}")
	}

	return endOfInput
}

// frame is the parse state of one segment chain list: the top level of a
// declaration or the inside of a brace group.
type frame struct {
	cur    *cursor
	parent Path // prefix shared by every chain in the list
	path   Path // prefix of the chain being parsed
	inner  bool
	resume bool // a nested group was just parsed
	sep    bool // a separator was consumed, so a segment must follow
}

// end reports whether the chain list of f is complete. A semicolon inside a
// group is an error.
func (f *frame) end() (bool, error) {
	tok, ok := f.cur.peek()
	if !ok {
		return true, nil
	}

	if tok.IsPunct(';') {
		if f.inner {
			return false, ErrUnterminatedDeclaration.At(tok).
				Expecting(Quote(","), Quote("::"), Quote("}"))
		}

		return true, nil
	}

	return false, nil
}

// terminators lists the tokens accepted after a complete chain.
func (f *frame) terminators() []string {
	if f.inner {
		return []string{Quote(","), Quote("}")}
	}

	return []string{Quote(";"), Quote(",")}
}

// continuations lists the tokens accepted after a segment.
func (f *frame) continuations() []string {
	if f.inner {
		return []string{Quote(","), Quote("as"), Quote("::"), Quote("}")}
	}

	return []string{Quote(";"), Quote(","), Quote("as"), Quote("::")}
}

func (f *frame) segment() (Segment, error) {
	tok, ok := f.cur.peek()

	switch {
	case !ok:
		return Segment{}, ErrExpectedSegment.
			WithPosition(f.cur.pos()).
			Found(f.cur.found()).
			Expecting(expectIdent, Quote("#"), Quote("{"))

	case tok.IsIdent():
		f.cur.next()

		return Name(tok), nil

	case tok.IsPunct('#'):
		f.cur.next()

		val, ok := f.cur.peek()
		if !ok || val.IsPunct(';') || val.IsPunct(',') {
			return Segment{}, ErrExpectedSegment.
				WithPosition(f.cur.pos()).
				Found(f.cur.found()).
				Expecting("placeholder token")
		}

		f.cur.next()

		return Placeholder(tok, val), nil

	case tok.IsPunct('*'):
		return Segment{}, ErrWildcardNotSupported.At(tok)

	default:
		return Segment{}, ErrExpectedSegment.At(tok).
			Expecting(expectIdent, Quote("#"), Quote("{"))
	}
}

// comma consumes the comma separating two chains, unless the list has ended.
func (f *frame) comma() (bool, error) {
	end, err := f.end()
	if err != nil || end {
		return end, err
	}

	tok, _ := f.cur.peek()

	switch {
	case tok.IsPunct(','):
		f.cur.next()

		f.path = f.parent.Clone()

		return false, nil

	case tok.IsIdent("as"):
		return false, ErrMisplacedAlias.At(tok).Expecting(f.terminators()...)

	default:
		return false, ErrUnterminatedDeclaration.At(tok).
			Expecting(f.terminators()...)
	}
}

// declParser expands nested declarations into a flat binding list using an
// explicit worklist of frames instead of recursion.
type declParser struct {
	work     deque.Deque
	bindings []Binding
}

func (p *declParser) parseChain(cur *cursor) error {
	p.work.PushBack(&frame{cur: cur, sep: true})

	for !p.work.Empty() {
		f := p.work.Back().(*frame)

		done, err := p.step(f)
		if err != nil {
			p.work = deque.NewDeque()

			return err
		}

		if done {
			p.work.PopBack()
		}
	}

	return nil
}

// step advances f until its chain list is complete, reporting true, or until
// it opens a nested group, reporting false after pushing the group's frame.
func (p *declParser) step(f *frame) (bool, error) {
	for {
		if f.resume {
			f.resume = false

			end, err := f.comma()
			if err != nil || end {
				return end, err
			}

			continue
		}

		end, err := f.end()
		if err != nil {
			return false, err
		}

		if end {
			if f.sep {
				return false, ErrExpectedSegment.
					WithPosition(f.cur.pos()).
					Found(f.cur.found()).
					Expecting(expectIdent, Quote("#"), Quote("{"))
			}

			return true, nil
		}

		if tok, _ := f.cur.peek(); tok.IsGroup(token.Brace) {
			f.cur.next()

			f.sep = false
			f.resume = true

			p.work.PushBack(&frame{
				cur:    &cursor{toks: tok.Stream, end: tok.Pos, inner: true},
				parent: f.path.Clone(),
				path:   f.path.Clone(),
				inner:  true,
			})

			return false, nil
		}

		seg, err := f.segment()
		if err != nil {
			return false, err
		}

		f.sep = false
		f.path.Push(seg)

		if err := p.afterSegment(f, seg); err != nil {
			return false, err
		}
	}
}

// afterSegment handles whatever follows the segment just pushed onto f.path.
func (p *declParser) afterSegment(f *frame, seg Segment) error {
	tok, _ := f.cur.peek()

	switch end, err := f.end(); {
	case err != nil:
		return err

	case end || tok.IsPunct(','):
		if err := p.bindLeaf(f, seg); err != nil {
			return err
		}

		if !end {
			f.cur.next()
		}

		f.path = f.parent.Clone()

		return nil

	case tok.IsIdent("as"):
		f.cur.next()

		return p.bindAlias(f, seg, tok)

	case f.cur.atSep():
		if seg.IsSelf() {
			return ErrIllegalSelfReference.At(seg.Name).
				Expecting(Quote(","), Quote("as"), Quote(";"))
		}

		f.cur.skip(2)
		f.sep = true

		return nil

	default:
		return ErrUnterminatedDeclaration.At(tok).Expecting(f.continuations()...)
	}
}

// bindLeaf binds the chain ending in seg under its own trailing name. A
// trailing self binds the enclosing path under that path's trailing name.
func (p *declParser) bindLeaf(f *frame, seg Segment) error {
	if f.path.PopSelf() && f.path.Len() == 0 {
		return ErrIllegalSelfReference.At(seg.Name)
	}

	name, err := f.path.LastName()
	if err != nil {
		return err
	}

	p.bindings = append(p.bindings, Binding{Path: f.path.Clone(), Name: name})

	return nil
}

// bindAlias binds the chain ending in seg under the alias that follows the
// "as" keyword. A trailing self aliases the enclosing path.
func (p *declParser) bindAlias(f *frame, seg Segment, as token.Token) error {
	if f.path.PopSelf() && f.path.Len() == 0 {
		return ErrIllegalSelfReference.At(seg.Name)
	}

	alias, ok := f.cur.peek()
	if !ok || !alias.IsIdent() {
		return ErrExpectedIdent.
			WithPosition(f.cur.pos()).
			Found(f.cur.found()).
			Expecting(expectIdent).
			With(slog.String("after", as.Text))
	}

	f.cur.next()

	if f.cur.atSep() {
		next, _ := f.cur.peek()

		return ErrMisplacedAlias.At(next).Expecting(f.terminators()...)
	}

	p.bindings = append(p.bindings, Binding{Path: f.path.Clone(), Name: alias})

	_, err := f.comma()

	return err
}
