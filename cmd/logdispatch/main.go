// Command logdispatch pipes lines from standard input through engines
// configured from a TOML file, flags and the LOGDISPATCH_* environment.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	diag := newDiagLogger(os.Stderr, zapcore.InfoLevel)
	defer func() { _ = diag.Sync() }()

	root := newRootCmd(os.Stdin, os.Stdout, diag)
	if err := root.Execute(); err != nil {
		diag.Error("logdispatch failed", zap.Error(err))
		_ = diag.Sync()
		os.Exit(1)
	}
}

// newDiagLogger builds the zap logger for the command's own diagnostics.
// It never writes through an engine so that delivery failures can be
// reported on it.
func newDiagLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

func newRootCmd(stdin io.Reader, stdout io.Writer, diag *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "logdispatch",
		Short:         "Asynchronous log delivery",
		Long:          "logdispatch delivers log entries to sinks through bounded queues with retries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	root.AddCommand(newPipeCmd(diag))
	root.AddCommand(newSinksCmd())
	return root
}
