package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var levelStyles = map[doctree.Level]*color.Color{
	doctree.H1: color.New(color.Bold, color.FgHiMagenta),
	doctree.H2: color.New(color.FgHiCyan),
	doctree.H3: color.New(color.FgHiGreen),
	doctree.H4: color.New(color.FgHiYellow),
}

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print a document's inferred outline with the facts behind it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.newLogger(os.Stderr, "text")
			engine, err := opts.newEngine(log)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := pipeline.NewWorker(engine, nil, log).Analyze(filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			printAnalysis(cmd.OutOrStdout(), a, verbose)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print font sizes, margin patterns and rule hits")
	return cmd
}

func printAnalysis(w io.Writer, a layout.Analysis, verbose bool) {
	title := a.Summary.Title
	if title == "" {
		title = dimStyle.Sprint("(none)")
	}
	fmt.Fprintf(w, "%s %s %s\n", labelStyle.Sprint("title:"), title, dimStyle.Sprintf("[%s]", a.TitleSource))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Sprint("source:"), a.Source)

	if verbose {
		fmt.Fprintf(w, "%s %.1f  %s %v  %s %d\n",
			labelStyle.Sprint("body:"), a.BodySize,
			labelStyle.Sprint("levels:"), a.LevelSizes,
			labelStyle.Sprint("lines:"), a.Lines)
		for _, m := range a.Margins {
			fmt.Fprintf(w, "%s %q\n", labelStyle.Sprint("margin:"), m)
		}
		rules := make([]string, 0, len(a.RuleHits))
		for name := range a.RuleHits {
			rules = append(rules, name)
		}
		sort.Strings(rules)
		for _, name := range rules {
			fmt.Fprintf(w, "%s %-18s %d\n", labelStyle.Sprint("rule:"), name, a.RuleHits[name])
		}
	}

	if len(a.Summary.Outline) == 0 {
		fmt.Fprintln(w, dimStyle.Sprint("(no outline)"))
		return
	}
	for _, e := range a.Summary.Outline {
		indent := strings.Repeat("  ", int(e.Level)-1)
		style := levelStyles[e.Level]
		fmt.Fprintf(w, "%s%s %s %s\n", indent, style.Sprint(e.Level.String()), e.Text, dimStyle.Sprintf("p.%d", e.Page))
	}
}
