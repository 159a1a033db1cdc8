package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autotag/internal/library"
	"autotag/internal/pipeline"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var fpcalcBin string

	cmd := &cobra.Command{
		Use:   "tag INPUT_DIR OUTPUT_DIR",
		Short: "Identify and tag every MP3 under INPUT_DIR into a clean copy at OUTPUT_DIR",
		Long: `Tag scans INPUT_DIR recursively, mirrors each MP3 into OUTPUT_DIR, and runs
the identification pipeline against the copies. Accepted records are written
into the copies' ID3 tags; rejected files keep their original tags. The input
tree is never modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, err := newApp(cfg, pipeline.Options{Apply: !dryRun, FpcalcBinary: fpcalcBin})
			if err != nil {
				return err
			}
			defer app.Close()

			proc, err := library.NewProcessor(app.pipeline, dryRun, app.logger)
			if err != nil {
				return err
			}
			summary, err := proc.Process(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Outcomes) > 0 {
				fmt.Fprintln(out, renderOutcomes(out, summary.Outcomes))
			}
			fmt.Fprintf(out, "Processed %d files: %d accepted, %d rejected, %d failed\n",
				summary.Total, summary.Accepted, summary.Rejected, summary.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyze in place without copying or writing tags")
	cmd.Flags().StringVar(&fpcalcBin, "fpcalc", "", "Path to the fpcalc binary (defaults to PATH lookup)")
	return cmd
}
