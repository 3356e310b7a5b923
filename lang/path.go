package lang

import (
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/quse/lang/token"
)

// SelfName is the reserved segment naming the enclosing path.
const SelfName = "self"

// SegmentKind discriminates the variants of a [Segment].
type SegmentKind uint8

const (
	// SegmentName is a literal identifier.
	SegmentName SegmentKind = iota
	// SegmentPlaceholder is a marker followed by one opaque token supplied
	// from outside the declaration text.
	SegmentPlaceholder
)

// Segment is one component of a [Path]. Construct with [Name] or
// [Placeholder].
type Segment struct {
	// Name is the identifier of a SegmentName, or the marker token of a
	// SegmentPlaceholder.
	Name token.Token
	// Value is the opaque token of a SegmentPlaceholder.
	Value token.Token
	Kind  SegmentKind
}

// Name returns a segment for the identifier tok.
func Name(tok token.Token) Segment {
	return Segment{Kind: SegmentName, Name: tok}
}

// Placeholder returns a segment for marker followed by the opaque value.
func Placeholder(marker, value token.Token) Segment {
	return Segment{Kind: SegmentPlaceholder, Name: marker, Value: value}
}

// IsSelf reports whether s is the self-reference segment.
func (s Segment) IsSelf() bool {
	return s.Kind == SegmentName && s.Name.Text == SelfName
}

// Tokens returns the tokens s renders to.
func (s Segment) Tokens() token.Stream {
	if s.Kind == SegmentPlaceholder {
		return token.Stream{s.Name, s.Value}
	}

	return token.Stream{s.Name}
}

func (s Segment) String() string {
	return s.Tokens().String()
}

// Path is an ordered sequence of segments.
// The zero Path is empty and ready to use.
type Path struct {
	segments []Segment
}

// NewPath returns a path of the given segments.
func NewPath(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments)}
}

// Len returns the number of segments in p.
func (p Path) Len() int { return len(p.segments) }

// Segments returns an iterator over the segments of p.
func (p Path) Segments() iter.Seq[Segment] {
	return slices.Values(p.segments)
}

// Clone returns a copy of p that does not share storage with it.
func (p Path) Clone() Path {
	return Path{segments: slices.Clone(p.segments)}
}

// Push appends s to p.
func (p *Path) Push(s Segment) {
	p.segments = append(p.segments, s)
}

// Pop removes and returns the last segment of p.
// It panics with [ErrInternal] if p is empty.
func (p *Path) Pop() Segment {
	n := len(p.segments)
	if n == 0 {
		panic(ErrInternal.With(slog.String("op", "pop of empty path")))
	}

	s := p.segments[n-1]
	p.segments = p.segments[:n-1]

	return s
}

// PopSelf removes a trailing self-reference segment, reporting whether it
// did.
func (p *Path) PopSelf() bool {
	if n := len(p.segments); n > 0 && p.segments[n-1].IsSelf() {
		p.segments = p.segments[:n-1]

		return true
	}

	return false
}

// Last returns the last segment of p and whether p is non-empty.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}

	return p.segments[len(p.segments)-1], true
}

// LastName returns the identifier of the last segment of p.
// It fails with [ErrNonNameTail] if that segment is a placeholder.
func (p Path) LastName() (token.Token, error) {
	last, ok := p.Last()
	if !ok {
		panic(ErrInternal.With(slog.String("op", "last name of empty path")))
	}

	if last.Kind != SegmentName {
		return token.Token{}, ErrNonNameTail.At(last.Name).
			Expecting("identifier")
	}

	return last.Name, nil
}

// Tokens renders p: a leading root separator when the first segment is a
// name, then the segments joined by separators.
func (p Path) Tokens() token.Stream {
	out := make(token.Stream, 0, 3*len(p.segments))

	for i, s := range p.segments {
		if i > 0 || s.Kind == SegmentName {
			pos := s.Name.Pos
			out = append(out,
				token.NewPunct(':', token.Joint, pos),
				token.NewPunct(':', token.Alone, pos),
			)
		}

		out = append(out, s.Tokens()...)
	}

	return out
}

func (p Path) String() string {
	var sb strings.Builder

	for i, s := range p.segments {
		if i > 0 || s.Kind == SegmentName {
			sb.WriteString("::")
		}

		if s.Kind == SegmentPlaceholder {
			sb.WriteString(s.Name.Text)
			sb.WriteString(s.Value.String())
		} else {
			sb.WriteString(s.Name.Text)
		}
	}

	return sb.String()
}

// Binding maps a bound name to the path its bare occurrences expand to.
type Binding struct {
	Path Path
	Name token.Token
}

func (b Binding) String() string {
	return b.Path.String() + " as " + b.Name.Text
}

// LogValue implements slog.LogValuer.
func (b Binding) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", b.Name.Text),
		slog.String("path", b.Path.String()),
	)
}
