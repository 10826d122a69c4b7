package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/logger"
)

const (
	appName = "docoutline"
	version = "0.1.0"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	heuristics string
	logLevel   string
	logFormat  string
}

var (
	okStyle    = color.New(color.FgHiGreen)
	failStyle  = color.New(color.FgHiRed)
	labelStyle = color.New(color.Bold, color.FgHiWhite)
	dimStyle   = color.New(color.FgHiBlack)
)

// newLogger writes to w; subcommands that own stdout log to stderr.
func (o *globalOptions) newLogger(w io.Writer, fallbackFormat string) *slog.Logger {
	format := o.logFormat
	if format == "" {
		format = fallbackFormat
	}
	return logger.New(o.logLevel, format, w)
}

func (o *globalOptions) newEngine(log *slog.Logger) (*layout.Engine, error) {
	cfg, err := config.LoadHeuristics(o.heuristics)
	if err != nil {
		return nil, err
	}
	return layout.New(cfg, log)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Infer the title and H1-H4 outline of documents",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Infer a title and a hierarchical outline from document layout. %s",
			color.New(color.FgBlue).Sprintf("(%s)", version),
		),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.heuristics, "heuristics", os.Getenv("HEURISTICS_FILE"),
		"Heuristic thresholds file (.toml or .yaml); defaults to "+config.DefaultHeuristicsPath())
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", os.Getenv("LOG_FORMAT"), "Log format (json or text)")

	rootCmd.AddCommand(
		newBatchCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newInspectCmd(opts),
	)
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
