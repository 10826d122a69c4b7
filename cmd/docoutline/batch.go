package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

func newBatchCmd(opts *globalOptions) *cobra.Command {
	var (
		input   string
		output  string
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Write one outline record per document in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			log := opts.newLogger(os.Stderr, "text")
			engine, err := opts.newEngine(log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := pipeline.NewWorker(engine, nil, log)
			res, err := pipeline.RunBatch(ctx, w, pipeline.BatchOptions{
				InputDir:  input,
				OutputDir: output,
				Workers:   workers,
				Format:    f,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, fr := range res.Files {
				name := filepath.Base(fr.Input)
				if fr.Error != "" {
					fmt.Fprintf(out, "%s %s %s\n", failStyle.Sprint("FAIL"), name, dimStyle.Sprint(fr.Error))
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n", okStyle.Sprint("ok  "), name,
					dimStyle.Sprintf("(%d entries, %s)", fr.Entries, fr.Source))
			}
			fmt.Fprintf(out, "%s %d processed, %d failed\n", labelStyle.Sprint("done:"), res.Processed, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", res.Failed, res.Processed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "input", "Directory of documents to read")
	cmd.Flags().StringVarP(&output, "output", "o", "output", "Directory to write outline records to")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, markdown, html)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Documents processed in parallel")
	return cmd
}
