package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initTestCLI struct {
	Namespace bool     `name:"namespace"`
	Seed      string   `name:"namespace-seed"`
	Bundle    []string `name:"bundle-path"`
	Count     int      `name:"count"`
	Secret    string   `hidden:"" name:"secret"`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create", force: false, exists: false},
		{name: "overwrite with force", force: true, exists: true},
		{name: "exists without force", force: false, exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("stale: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--namespace")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				if !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated file is not YAML: %v\n%s", err, data)
			}

			if got["namespace"] != true {
				t.Errorf("namespace = %v, want true", got["namespace"])
			}

			if _, ok := got["stale"]; ok {
				t.Error("forced init kept the previous contents")
			}
		})
	}
}

func TestInit_FlagValues(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "unused",
		"--namespace-seed=abc", "--bundle-path=a", "--bundle-path=b",
		"--count=3", "--secret=hide")

	entries := (&Init{}).flagValues(kongContextFrom(ctx))

	got := make(map[string]any, len(entries))
	order := make([]string, 0, len(entries))

	for _, item := range entries {
		key, _ := item.Key.(string)
		got[key] = item.Value
		order = append(order, key)
	}

	want := []string{"namespace", "namespace-seed", "bundle-path", "count"}
	if len(order) != len(want) {
		t.Fatalf("keys = %v, want %v", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	if got["namespace-seed"] != "abc" || got["count"] != int64(3) {
		t.Errorf("values = %v", got)
	}

	if paths, ok := got["bundle-path"].([]string); !ok || len(paths) != 2 {
		t.Errorf("bundle-path = %#v", got["bundle-path"])
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "x", "x"},
		{"named string", level("debug"), "debug"},
		{"bool", false, false},
		{"int", 7, int64(7)},
		{"uint", uint8(7), uint64(7)},
		{"float", 1.5, 1.5},
		{"empty slice", []string{}, nil},
		{"empty map", map[string]string{}, nil},
		{"struct", struct{}{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInit_UnwritablePath(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "missing", "config.yaml")

	if err := (&Init{}).Run(initContext(t, confPath)); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}
