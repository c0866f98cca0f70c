package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"censorr/internal/pipeline"
	"censorr/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage the persistent job queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newQueueAddCommand(ctx))
	cmd.AddCommand(newQueueListCommand(ctx))
	cmd.AddCommand(newQueueWorkCommand(ctx))
	cmd.AddCommand(newQueueRetryCommand(ctx))
	cmd.AddCommand(newQueueClearCommand(ctx))
	cmd.AddCommand(newQueueHealthCommand(ctx))
	return cmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <media-file> <subtitle-file>",
		Short: "Enqueue a media/subtitle pair for processing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.Enqueue(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enqueued job %d (%s)\n", item.ID, item.Title)
			return nil
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if statusFlag != "" {
				status, ok := queue.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}

			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty.")
				return nil
			}

			headers := []string{"ID", "Title", "Status", "Matches", "Muted", "Updated", "Detail"}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				detail := item.ErrorMessage
				if detail == "" {
					detail = item.ReviewReason
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.Title,
					string(item.Status),
					strconv.Itoa(item.MatchCount),
					formatSeconds(item.MuteSeconds),
					item.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
					detail,
				})
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Only show jobs with this status")
	return cmd
}

func newQueueWorkCommand(ctx *commandContext) *cobra.Command {
	var watchFlag bool
	var intervalFlag time.Duration

	cmd := &cobra.Command{
		Use:   "work",
		Short: "Process pending jobs until the queue drains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireRunLock()
			if err != nil {
				return err
			}
			defer release()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.ResetStuckProcessing(cmd.Context()); err != nil {
				return err
			}

			p, err := ctx.newPipeline(true)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			worker := pipeline.NewWorker(store, p, logger)

			if watchFlag {
				return worker.Watch(cmd.Context(), intervalFlag)
			}

			processed, err := worker.RunAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d job(s)\n", processed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watchFlag, "watch", false, "Keep polling for new jobs instead of exiting when drained")
	cmd.Flags().DurationVar(&intervalFlag, "interval", 5*time.Second, "Poll interval used with --watch")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Move failed and review jobs back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid job id %q", arg)
				}
				ids = append(ids, id)
			}

			retried, err := store.RetryFailed(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retried %d job(s)\n", retried)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var completedFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove jobs from the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var removed int64
			if completedFlag {
				removed, err = store.ClearCompleted(cmd.Context())
			} else {
				removed, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completedFlag, "completed", false, "Only remove completed jobs")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregated queue counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			health, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			headers := []string{"Total", "Pending", "Processing", "Completed", "Failed", "Review"}
			rows := [][]string{{
				strconv.Itoa(health.Total),
				strconv.Itoa(health.Pending),
				strconv.Itoa(health.Processing),
				strconv.Itoa(health.Completed),
				strconv.Itoa(health.Failed),
				strconv.Itoa(health.Review),
			}}
			aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}
