package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/quse/lang"
)

// Output formats accepted by the --format flag of the listing commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// defaultIndent is the indent width of structured output.
const defaultIndent = 2

// bindingRecord is the structured form of a [lang.Binding].
type bindingRecord struct {
	Name     string `json:"name"               yaml:"name"`
	Path     string `json:"path"               yaml:"path"`
	Explicit bool   `json:"explicit"           yaml:"explicit"`
	Shadowed bool   `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

func makeBindingRecord(b lang.Binding, explicit, shadowed bool) bindingRecord {
	return bindingRecord{
		Name:     b.Name.Text,
		Path:     b.Path.String(),
		Explicit: explicit,
		Shadowed: shadowed,
	}
}

// bundleRecord is the structured form of one prelude bundle.
type bundleRecord struct {
	Name     string          `json:"name"     yaml:"name"`
	Bindings []bindingRecord `json:"bindings" yaml:"bindings"`
}

// encode writes v to w in the given format. The text format is produced by
// text, which receives w.
func encode(
	ctx context.Context,
	w io.Writer,
	format string,
	v any,
	text func(io.Writer) error,
) error {
	switch format {
	case "", formatText:
		return text(w)

	case formatJSON:
		buf, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = w.Write(append(buf, '\n'))

		return err

	case formatYAML:
		buf, err := yaml.MarshalContext(ctx, v, yaml.Indent(defaultIndent))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(buf)

		return err

	default:
		return ErrFormat.With(slog.String("format", format))
	}
}
