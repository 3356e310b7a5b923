package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quse/cli/cmd"
	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
	"github.com/ardnew/quse/pkg"
)

// CLI is the top-level command-line interface for quse.
type CLI struct {
	Log       logConfig       `embed:"" group:"log"       prefix:"log-"`
	Prelude   preludeConfig   `embed:"" group:"prelude"`
	Namespace namespaceConfig `embed:"" group:"namespace"`
	Pprof     pprofConfig     `embed:"" group:"pprof"     prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Source []string `help:"Source file(s) read before those of the command, or '-' for stdin." name:"source" short:"s" type:"existingfile"`

	Expand   cmd.Expand   `cmd:"" default:"withargs" help:"Expand use declarations in a token stream."`
	Bindings cmd.Bindings `cmd:""                    help:"List the bindings in effect for a source."`
	Bundles  cmd.Prelude  `cmd:""                    help:"List the prelude bundles and their bindings." name:"prelude"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file."`
	Repl     cmd.Repl     `cmd:""                    help:"Expand token streams interactively."`
}

// Run executes the quse CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports anything.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Prelude.group(),
			cli.Namespace.group(),
			cli.Pprof.group(),
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	prelude, err := cli.Prelude.config(ctx)
	if err != nil {
		return err
	}

	cfg := lang.Config{Prelude: prelude, Namespace: cli.Namespace.config()}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.DebugContext(ctx, "configuration loaded",
		slog.String("file", configFilePath),
		slog.Int("bundles", len(prelude.Bundles)),
		slog.Bool("namespace", cfg.Namespace.Enabled))

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithConfig(ctx, cfg)

	return ktx.Run(ctx, &cli)
}
