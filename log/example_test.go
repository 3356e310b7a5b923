package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/quse/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("expanded", slog.Int("bindings", 3))
	// Output: level=INFO msg=expanded bindings=3
}
