package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
	"github.com/ardnew/quse/pkg"
)

// bundleExt is the file extension of user prelude bundles.
const bundleExt = ".use"

// bundlePathEnv names the environment variable holding a list of bundle
// directories.
var bundlePathEnv = strings.ToUpper(pkg.Name) + "_BUNDLE_PATH"

// preludeConfig holds the flags selecting the prelude bundles.
type preludeConfig struct {
	Core        bool     `default:"true" help:"Include the core prelude."                                   name:"prelude-core" negatable:""`
	Std         bool     `default:"true" help:"Include the std prelude (implies core)."                     name:"prelude-std"  negatable:""`
	Edition2021 bool     `default:"true" help:"Include the 2021 edition prelude."                           name:"prelude-2021" negatable:""`
	BundlePath  []string `               help:"Directory searched for *.use prelude bundles (repeatable)." name:"bundle-path"  type:"path"`
}

func (*preludeConfig) group() kong.Group {
	return kong.Group{Key: "prelude", Title: "Prelude options"}
}

// config returns the prelude configuration selected by the flags, with the
// bundles found on the search path.
func (p *preludeConfig) config(ctx context.Context) (lang.PreludeConfig, error) {
	dirs := bundleSearchPath(p.BundlePath, os.Getenv(bundlePathEnv), configPath(baseBundles))

	bundles, err := loadBundles(ctx, dirs)
	if err != nil {
		return lang.PreludeConfig{}, err
	}

	return lang.PreludeConfig{
		Core:        p.Core,
		Std:         p.Std,
		Edition2021: p.Edition2021,
		Bundles:     bundles,
	}, nil
}

// namespaceConfig holds the flags of the namespacing pass.
type namespaceConfig struct {
	Enabled bool   `help:"Rename bare identifiers that no binding covers." name:"namespace"`
	Seed    string `help:"Seed of the namespacing hash."                      name:"namespace-seed" placeholder:"SEED"`
}

func (*namespaceConfig) group() kong.Group {
	return kong.Group{Key: "namespace", Title: "Namespacing options"}
}

func (n *namespaceConfig) config() lang.NamespaceConfig {
	return lang.NamespaceConfig{Enabled: n.Enabled, Seed: n.Seed}
}

// bundleSearchPath returns the directories searched for bundles: those named
// by flags, then the list in env, then fallback. Duplicates and entries that
// are not directories are removed.
func bundleSearchPath(flags []string, env, fallback string) []string {
	subject := append(filepath.SplitList(env), fallback)

	list := mung.Make(
		mung.WithSubjectItems(subject...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(flags...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// loadBundles reads every bundle file in dirs. A bundle is named by its file
// name without extension, and a name found in an earlier directory hides the
// same name in later ones. Files within a directory are loaded in name order.
func loadBundles(ctx context.Context, dirs []string) ([]lang.Bundle, error) {
	var (
		bundles []lang.Bundle
		names   = make(map[string]bool)
		visited = make(map[string]bool)
	)

	for _, dir := range dirs {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			dir = resolved
		}

		if visited[dir] {
			continue
		}

		visited[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			log.DebugContext(ctx, "skipping bundle directory",
				slog.String("dir", dir), slog.Any("error", err))

			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != bundleExt {
				continue
			}

			name := strings.TrimSuffix(entry.Name(), bundleExt)
			if names[name] {
				continue
			}

			path := filepath.Join(dir, entry.Name())

			data, err := os.ReadFile(path)
			if err != nil {
				return nil, lang.ErrInvalidBundle.
					With(slog.String("file", path)).
					Wrap(err)
			}

			names[name] = true
			bundles = append(bundles, lang.Bundle{Name: name, Source: string(data)})

			log.TraceContext(ctx, "bundle loaded",
				slog.String("name", name), slog.String("file", path))
		}
	}

	return bundles, nil
}
