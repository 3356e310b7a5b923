package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
)

// Prelude prints the bundles of the configured prelude registry in priority
// order.
type Prelude struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format." short:"o"`
}

// Run executes the prelude command.
func (p *Prelude) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := configFrom(ctx)

	reg, err := lang.Prelude(ctx, cfg.Prelude, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	records := make([]bundleRecord, 0)

	for name, bindings := range reg.Bundles() {
		rec := bundleRecord{Name: name, Bindings: make([]bindingRecord, 0, len(bindings))}
		for _, b := range bindings {
			rec.Bindings = append(rec.Bindings, makeBindingRecord(b, false, false))
		}

		records = append(records, rec)
	}

	log.DebugContext(ctx, "prelude listed",
		slog.Int("bundles", len(records)),
		slog.Int("bindings", reg.Len()))

	return encode(ctx, stdoutFrom(ctx), p.Format, records,
		func(w io.Writer) error { return writeBundles(w, records) })
}

// writeBundles writes each bundle name as a heading followed by its
// bindings.
func writeBundles(w io.Writer, records []bundleRecord) error {
	for i, r := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "%s:\n", r.Name); err != nil {
			return err
		}

		width := 0
		for _, b := range r.Bindings {
			width = max(width, len(b.Name))
		}

		for _, b := range r.Bindings {
			if _, err := fmt.Fprintf(w, "  %-*s => %s\n", width, b.Name, b.Path); err != nil {
				return err
			}
		}
	}

	return nil
}
