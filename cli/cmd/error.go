package cmd

import "github.com/ardnew/quse/lang"

// ErrCommand is the category of every error raised by a command itself, as
// opposed to errors from expanding its input.
var ErrCommand = lang.NewError("command failed")

var (
	ErrJSONMarshal = ErrCommand.Class("marshal JSON")
	ErrYAMLMarshal = ErrCommand.Class("marshal YAML")
	ErrWriteConfig = ErrCommand.Class("write configuration file")
	ErrFileExists  = ErrCommand.Class("file exists (use --force to overwrite)")
	ErrInvalidVar  = ErrCommand.Class("invalid quote variable")
	ErrUnbound     = ErrCommand.Class("name is not bound")
	ErrFormat      = ErrCommand.Class("unsupported output format")
)
