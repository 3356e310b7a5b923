package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ardnew/quse/lang"
)

var (
	diagLabel  = color.New(color.FgRed, color.Bold)
	diagGutter = color.New(color.FgBlue, color.Bold)
	diagCaret  = color.New(color.FgRed, color.Bold)
)

// diagnose writes err to w. A positioned syntax error is followed by the
// offending line of src with a caret under the error column.
func diagnose(w io.Writer, src string, err error) {
	fmt.Fprintf(w, "%s %v\n", diagLabel.Sprint("error:"), err)

	lerr := positioned(err)
	if lerr == nil {
		return
	}

	snippet := lerr.Snippet(src)
	if snippet == "" {
		return
	}

	line, caret, _ := strings.Cut(snippet, "\n")
	gutter, text, _ := strings.Cut(line, " | ")

	fmt.Fprintf(w, "%s%s\n", diagGutter.Sprint(gutter+" | "), text)
	fmt.Fprintln(w, diagCaret.Sprint(strings.TrimSuffix(caret, "\n")))
}

// positioned returns the outermost error in the chain of err that carries a
// source position.
func positioned(err error) *lang.Error {
	for err != nil {
		var lerr *lang.Error
		if !errors.As(err, &lerr) {
			return nil
		}

		if lerr.Position().IsValid() {
			return lerr
		}

		err = lerr.Unwrap()
	}

	return nil
}
