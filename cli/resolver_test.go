package cli

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quse/lang"
)

func TestResolve_Flatten(t *testing.T) {
	doc := `
log-level: debug
log:
  format: json
prelude_2021: false
count: 3
ratio: 0.5
bundle-path:
  - /a
  - /b
`

	r, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	got, ok := r.(config)
	if !ok {
		t.Fatalf("resolve returned %T", r)
	}

	want := config{
		"log-level":    "debug",
		"log-format":   "json",
		"prelude-2021": false,
		"count":        "3",
		"ratio":        "0.5",
		"bundle-path":  []any{"/a", "/b"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolve =\n%#v\nwant\n%#v", got, want)
	}
}

func TestResolve_Empty(t *testing.T) {
	r, err := resolve(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.(config)) != 0 {
		t.Errorf("empty file resolved to %v", r)
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := resolve(strings.NewReader("key: [unclosed"))
	if !errors.Is(err, ErrConfigFile) {
		t.Fatalf("resolve error = %v, want ErrConfigFile", err)
	}

	if !errors.Is(err, lang.ErrConfiguration) {
		t.Errorf("ErrConfigFile is not a configuration error: %v", err)
	}
}

func TestResolve_Kong(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseConfig)

	doc := "log-level: warn\nnamespace: true\nnamespace_seed: abc\ncount: 7\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		LogLevel  string `default:"info"`
		Namespace bool
		Seed      string `name:"namespace-seed"`
		Count     int
	}

	parser, err := kong.New(&cli, kong.Configuration(resolve, path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--count=9"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "warn" || !cli.Namespace || cli.Seed != "abc" {
		t.Errorf("resolved flags = %+v", cli)
	}

	if cli.Count != 9 {
		t.Errorf("command line did not override file: count = %d", cli.Count)
	}
}
