package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMaskCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mask <subtitle-file>",
		Short: "Mask catalog terms in a subtitle file without touching audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.newPipeline(false)
			if err != nil {
				return err
			}

			result, err := p.MaskSubtitles(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d cue(s), %d match(es), %d masked cue(s)\n",
				result.CueCount, result.MatchCount, result.MaskedCues)
			fmt.Fprintln(out, matchTable(result.Matches))
			fmt.Fprintf(out, "Masked subtitles: %s\n", result.MaskedSubtitle)
			fmt.Fprintf(out, "Match report: %s\n", result.ReportPath)
			return nil
		},
	}
}
