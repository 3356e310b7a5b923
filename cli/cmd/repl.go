package cmd

import (
	"context"
	"strings"

	"github.com/ardnew/quse/cli/cmd/repl"
	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
)

// Repl starts an interactive session that expands each input line against
// the declarations in effect.
type Repl struct {
	Bare   bool     `help:"Declarations use the bare 'use' introducer."`
	Source []string `arg:"" help:"Declaration file(s) seeding the session, or '-' for stdin." name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readDeclarations(ctx, r.Source)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	var opts []lang.Option
	if r.Bare {
		opts = append(opts, lang.WithIntroducer(lang.IntroducerBare))
	}

	return repl.Run(ctx, strings.NewReader(src), configFrom(ctx), cacheDir,
		log.Default(), opts...)
}
