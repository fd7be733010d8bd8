// Package cmdutil registers the flags shared by every subcommand:
// console logging and the metrics endpoint.
package cmdutil

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Package-level so all subcommands share one flag value.
var logLevel = zerolog.InfoLevel.String()

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		logLevel,
		"minimum level to log at (trace, debug, info, warn, error)",
	)
}

// Logger builds the console logger a subcommand runs with, honoring the
// registered --log-level flag.
func Logger() (zerolog.Logger, error) {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return logger, errors.Wrapf(err, "invalid log level %q", logLevel)
	}
	return logger.Level(lvl), nil
}
