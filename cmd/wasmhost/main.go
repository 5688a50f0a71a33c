// Command wasmhost runs guest contracts against a ledger fixture and
// derives ledger keys.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:           "wasmhost",
	Short:         "Run ledger-reading wasm guests",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log host calls and guest traces")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file, rotated at 10 MiB")
	rootCmd.AddCommand(runCmd, keyletCmd, versionCmd)
}

// logger writes JSON to --log-file when set, otherwise to stderr: pretty
// on a terminal and JSON when redirected.
func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var out io.Writer
	switch {
	case logFile != "":
		out = &lumberjack.Logger{Filename: logFile, MaxSize: 10, MaxBackups: 3}
	case term.IsTerminal(int(os.Stderr.Fd())):
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		out = os.Stderr
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
