package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"censorr/internal/pipeline"
)

func newQCCommand(ctx *commandContext) *cobra.Command {
	var planFlag string

	cmd := &cobra.Command{
		Use:   "qc <muted-media-file>",
		Short: "Validate a muted file against its mute plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if planFlag == "" {
				return errors.New("--plan is required")
			}
			plan, err := pipeline.ReadPlanSidecar(planFlag)
			if err != nil {
				return err
			}
			if len(plan) == 0 {
				return errors.New("plan contains no intervals")
			}

			p, err := ctx.newPipeline(true)
			if err != nil {
				return err
			}
			report, err := p.ValidateMuted(cmd.Context(), args[0], plan)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, qcTable(report))
			ok, under, over := report.Counts()
			fmt.Fprintf(out, "ok: %d  under_muted: %d  over_attenuated: %d  (threshold %.1f dB)\n",
				ok, under, over, report.ThresholdDB)
			if !report.Passed() {
				return fmt.Errorf("quality control failed: %d flagged sample(s)", under+over)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planFlag, "plan", "", "Mute plan JSON produced by run or mute-plan")
	return cmd
}
