package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
)

// maxSuggestions bounds the close matches offered for an unbound name.
const maxSuggestions = 3

// Bindings prints the symbol table formed by the declarations of a source
// merged with the configured prelude.
type Bindings struct {
	Format string   `default:"text" enum:"text,json,yaml" help:"Output format."                                     short:"o"`
	Lookup string   `                                      help:"Print only the binding in effect for NAME."         placeholder:"NAME" short:"l"`
	All    bool     `                                      help:"Include bindings shadowed by a higher-priority one." short:"a"`
	Bare   bool     `                                      help:"Declarations use the bare 'use' introducer."`
	Source []string `arg:"" help:"Source file(s) or '-' for stdin." name:"source" optional:"" type:"existingfile"`
}

// Run executes the bindings command.
func (b *Bindings) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readDeclarations(ctx, b.Source)
	if err != nil {
		return err
	}

	table, err := b.table(ctx, src)
	if err != nil {
		diagnose(stderrFrom(ctx), src, err)

		return err
	}

	if b.Lookup != "" {
		return b.lookup(ctx, table)
	}

	var (
		records []bindingRecord
		seen    = make(map[string]bool)
	)

	for bind, explicit := range table.All() {
		shadowed := seen[bind.Name.Text]
		seen[bind.Name.Text] = true

		if shadowed && !b.All {
			continue
		}

		records = append(records, makeBindingRecord(bind, explicit, shadowed))
	}

	log.DebugContext(ctx, "bindings listed",
		slog.Int("bound", table.Len()),
		slog.Int("records", len(records)))

	return encode(ctx, stdoutFrom(ctx), b.Format, records,
		func(w io.Writer) error { return writeBindings(w, records) })
}

// table builds the symbol table for the declarations at the head of src.
func (b *Bindings) table(ctx context.Context, src string) (*lang.Table, error) {
	opts := []lang.Option{lang.WithLogger(log.Default())}
	if b.Bare {
		opts = append(opts, lang.WithIntroducer(lang.IntroducerBare))
	}

	stream, err := lang.Lex(src)
	if err != nil {
		return nil, err
	}

	exp, err := lang.Expand(ctx, stream, configFrom(ctx), opts...)
	if err != nil {
		return nil, err
	}

	return exp.Table, nil
}

func (b *Bindings) lookup(ctx context.Context, table *lang.Table) error {
	bind, ok := table.Lookup(b.Lookup)
	if ok {
		rec := makeBindingRecord(bind, false, false)

		for other, explicit := range table.All() {
			if other.Name.Text == b.Lookup {
				rec.Explicit = explicit

				break
			}
		}

		return encode(ctx, stdoutFrom(ctx), b.Format, rec,
			func(w io.Writer) error { return writeBindings(w, []bindingRecord{rec}) })
	}

	suggest := suggestions(b.Lookup, table.Names())
	if len(suggest) > 0 {
		fmt.Fprintf(stderrFrom(ctx), "did you mean: %s?\n", strings.Join(suggest, ", "))
	}

	return ErrUnbound.With(
		slog.String("name", b.Lookup),
		slog.Any("suggestions", suggest),
	)
}

// suggestions returns the closest fuzzy matches of name among names.
func suggestions(name string, names []string) []string {
	matches := fuzzy.Find(name, names)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// writeBindings writes one "name => path" line per record, aligned on the
// arrow. Prelude bindings and shadowed bindings are annotated.
func writeBindings(w io.Writer, records []bindingRecord) error {
	width := 0
	for _, r := range records {
		width = max(width, len(r.Name))
	}

	for _, r := range records {
		var notes []string

		if !r.Explicit {
			notes = append(notes, "prelude")
		}

		if r.Shadowed {
			notes = append(notes, "shadowed")
		}

		line := fmt.Sprintf("%-*s => %s", width, r.Name, r.Path)
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
