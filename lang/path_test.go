package lang

import (
	"errors"
	"testing"

	"github.com/ardnew/quse/lang/token"
)

func ident(name string) token.Token { return token.NewIdent(name, token.Pos{}) }

func TestPath_Tokens(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{
			name: "names",
			path: NewPath(Name(ident("a")), Name(ident("b"))),
			want: ":: a :: b",
		},
		{
			name: "leading placeholder",
			path: NewPath(
				Placeholder(token.NewPunct('#', token.Alone, token.Pos{}), ident("krate")),
				Name(ident("Type")),
			),
			want: "# krate :: Type",
		},
		{
			name: "inner placeholder",
			path: NewPath(
				Name(ident("a")),
				Placeholder(token.NewPunct('#', token.Alone, token.Pos{}), ident("b")),
			),
			want: ":: a :: # b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Tokens().String(); got != tt.want {
				t.Errorf("Tokens() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPath_PushPop(t *testing.T) {
	var p Path

	p.Push(Name(ident("a")))
	p.Push(Name(ident(SelfName)))

	if !p.PopSelf() {
		t.Fatal("PopSelf did not remove trailing self")
	}

	if p.PopSelf() {
		t.Fatal("PopSelf removed a non-self segment")
	}

	if got := p.Pop(); got.Name.Text != "a" {
		t.Errorf("Pop() = %v, want a", got)
	}

	if p.Len() != 0 {
		t.Errorf("Len() = %d after popping everything", p.Len())
	}
}

func TestPath_PopEmptyPanics(t *testing.T) {
	defer func() {
		r := recover()

		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInternal) {
			t.Errorf("recovered %v, want ErrInternal", r)
		}
	}()

	var p Path

	p.Pop()
}

func TestPath_LastName(t *testing.T) {
	p := NewPath(Name(ident("a")))

	name, err := p.LastName()
	if err != nil || name.Text != "a" {
		t.Errorf("LastName() = %v, %v", name, err)
	}

	marker := token.Pos{Offset: 4, Line: 1, Column: 5}
	value := token.Pos{Offset: 5, Line: 1, Column: 6}

	p.Push(Placeholder(
		token.NewPunct('#', token.Joint, marker),
		token.NewIdent("x", value),
	))

	_, err = p.LastName()
	if !errors.Is(err, ErrNonNameTail) {
		t.Fatalf("LastName() error = %v, want ErrNonNameTail", err)
	}

	if pos := WrapError(err).Position(); pos != marker {
		t.Errorf("LastName() error at %v, want the marker at %v", pos, marker)
	}
}

func TestPath_CloneIndependent(t *testing.T) {
	p := NewPath(Name(ident("a")))
	q := p.Clone()

	q.Push(Name(ident("b")))

	if p.Len() != 1 {
		t.Errorf("Clone shares storage: original has %d segments", p.Len())
	}
}
