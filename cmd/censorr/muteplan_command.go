package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"censorr/internal/ffmpeg"
	"censorr/internal/pipeline"
)

func newMutePlanCommand(ctx *commandContext) *cobra.Command {
	var mediaFlag string
	var durationFlag float64
	var outFlag string

	cmd := &cobra.Command{
		Use:   "mute-plan <subtitle-file>",
		Short: "Build the mute plan for a subtitle file without muting",
		Long: "Matches and masks the subtitle file in memory, then prints the merged,\n" +
			"padded mute plan. Pass --media to clip against the real duration or\n" +
			"--duration to clip against a known length.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			duration := durationFlag
			if mediaFlag != "" {
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				exec := ffmpeg.New(cfg.Audio.FFmpegBinary, cfg.Audio.FFprobeBinary, logger)
				duration, err = exec.ProbeDuration(cmd.Context(), mediaFlag)
				if err != nil {
					return err
				}
			}

			p, err := ctx.newPipeline(false)
			if err != nil {
				return err
			}
			result, err := p.BuildMutePlan(cmd.Context(), args[0], duration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d match(es) across %d cue(s)\n", result.MatchCount, result.CueCount)
			fmt.Fprintln(out, planTable(result.Plan))
			if len(result.Plan) > 0 {
				fmt.Fprintf(out, "Total mute time: %s\n", formatSeconds(result.MuteSeconds))
			}
			if outFlag != "" {
				if err := pipeline.WritePlanSidecar(outFlag, result.Plan); err != nil {
					return err
				}
				fmt.Fprintf(out, "Plan written to %s\n", outFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaFlag, "media", "", "Media file to probe for the clipping duration")
	cmd.Flags().Float64Var(&durationFlag, "duration", 0, "Audio duration in seconds used to clip the plan")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write the plan as JSON to this path")
	return cmd
}
