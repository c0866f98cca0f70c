package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <media-file> <subtitle-file>",
		Short: "Mask subtitles, mute the matching audio, and validate the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireRunLock()
			if err != nil {
				return err
			}
			defer release()

			p, err := ctx.newPipeline(true)
			if err != nil {
				return err
			}

			result, err := p.Run(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: %d cue(s), %d match(es), %d masked cue(s)\n",
				result.RunID, result.CueCount, result.MatchCount, result.MaskedCues)
			fmt.Fprintln(out, matchTable(result.Matches))
			if len(result.Plan) > 0 {
				fmt.Fprintf(out, "Muted %s across %d interval(s):\n",
					formatSeconds(result.MuteSeconds), len(result.Plan))
				fmt.Fprintln(out, planTable(result.Plan))
			}
			if result.QC != nil {
				fmt.Fprintln(out, qcTable(result.QC))
				if !result.QC.Passed() {
					fmt.Fprintln(out, "Quality control flagged samples; review the qc report before shipping.")
				}
			}
			fmt.Fprintf(out, "Masked subtitles: %s\n", result.MaskedSubtitle)
			if result.MutedMedia != "" {
				fmt.Fprintf(out, "Muted media: %s\n", result.MutedMedia)
			}
			fmt.Fprintf(out, "Match report: %s\n", result.ReportPath)
			return nil
		},
	}
}
