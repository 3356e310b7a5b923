package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/quse/lang/token"
	"github.com/ardnew/quse/pkg"
)

// EscapeChar marks an identifier or lifetime for namespacing. Doubled, it
// stands for itself.
const EscapeChar = '$'

// Namespacer rewrites escaped identifiers into names private to one seed,
// such as a package or module name.
type Namespacer struct {
	prefix string
}

// NewNamespacer returns a namespacer for seed. Characters of seed that are
// not valid in identifiers are replaced by underscores; an empty seed falls
// back to the program name.
func NewNamespacer(seed string) *Namespacer {
	seed = strings.Map(func(r rune) rune {
		if isIdentifierContinue(r) {
			return r
		}

		return '_'
	}, strings.TrimSpace(seed))

	if seed == "" {
		seed = pkg.Name
	}

	return &Namespacer{prefix: "__" + seed + "_"}
}

// Prefix returns the string prepended to namespaced identifiers.
func (n *Namespacer) Prefix() string { return n.prefix }

// Ident returns the namespaced spelling of name.
func (n *Namespacer) Ident(name string) string { return n.prefix + name }

// FormatIdent formats an identifier. If the result begins with the escape
// character, the remainder is namespaced.
func (n *Namespacer) FormatIdent(format string, args ...any) (string, error) {
	s := fmt.Sprintf(format, args...)

	name, escaped := strings.CutPrefix(s, string(EscapeChar))
	if !IsIdentifier(name) {
		return "", ErrInvalidIdent.With(slog.String("ident", s))
	}

	if escaped {
		return n.Ident(name), nil
	}

	return name, nil
}

func (n *Namespacer) rename(tok token.Token) token.Token {
	return token.NewIdent(n.Ident(tok.Text), tok.Pos)
}
