package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"animopt/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past optimization runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.Paths.HistoryDB, cfg.History.MaxRuns)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeHistoryListJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "History is empty")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.ID),
						run.Animation,
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
						formatCount(run.KeysBefore),
						formatCount(run.KeysAfter),
						formatPercent(run.Compression()),
						formatError(run.MaxPositionError),
					})
				}
				table := renderTable(
					[]string{"Run", "Animation", "When", "Before", "After", "Kept", "Max Error"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show RUN",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := resolveRun(cmd, store, args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %q not found", args[0])
				}
				if jsonOutput {
					return writeHistoryRunJSON(cmd, *run)
				}
				printHistoryRun(cmd, run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run as JSON")
	return cmd
}

// resolveRun accepts either a full run ID or an unambiguous prefix.
func resolveRun(cmd *cobra.Command, store *history.Store, arg string) (*history.Run, error) {
	run, err := store.Get(cmd.Context(), arg)
	if err != nil || run != nil {
		return run, err
	}

	runs, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *history.Run
	for i := range runs {
		if len(arg) >= 4 && len(runs[i].ID) >= len(arg) && runs[i].ID[:len(arg)] == arg {
			if match != nil {
				return nil, fmt.Errorf("run prefix %q is ambiguous", arg)
			}
			match = &runs[i]
		}
	}
	return match, nil
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			})
		},
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func historyRunPayload(run history.Run) map[string]any {
	return map[string]any{
		"id":                    run.ID,
		"created_at":            run.CreatedAt.Format(time.RFC3339),
		"animation":             run.Animation,
		"joint_count":           run.JointCount,
		"duration_seconds":      run.DurationSeconds,
		"translation_tolerance": run.TranslationTolerance,
		"rotation_tolerance":    run.RotationTolerance,
		"scale_tolerance":       run.ScaleTolerance,
		"keys_before":           run.KeysBefore,
		"keys_after":            run.KeysAfter,
		"compression":           run.Compression(),
		"max_position_error":    run.MaxPositionError,
		"mean_position_error":   run.MeanPositionError,
		"archive_path":          run.ArchivePath,
	}
}

func writeHistoryListJSON(cmd *cobra.Command, runs []history.Run) error {
	payload := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		payload = append(payload, historyRunPayload(run))
	}
	return writeJSON(cmd, map[string]any{"runs": payload})
}

func writeHistoryRunJSON(cmd *cobra.Command, run history.Run) error {
	return writeJSON(cmd, historyRunPayload(run))
}

func printHistoryRun(cmd *cobra.Command, run *history.Run) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintln(out, renderStatusLine("Animation", statusInfo,
		fmt.Sprintf("%s (%d joints, %gs)", run.Animation, run.JointCount, run.DurationSeconds), colorize))
	fmt.Fprintln(out, renderStatusLine("Recorded", statusInfo, run.CreatedAt.Local().Format(time.RFC1123), colorize))
	fmt.Fprintln(out, renderStatusLine("Tolerances", statusInfo,
		fmt.Sprintf("translation %g, rotation %.4g deg, scale %g",
			run.TranslationTolerance, run.RotationTolerance*180/math.Pi, run.ScaleTolerance), colorize))
	fmt.Fprintln(out, renderStatusLine("Keys", statusOK,
		fmt.Sprintf("%s -> %s (%s kept)", formatCount(run.KeysBefore), formatCount(run.KeysAfter), formatPercent(run.Compression())), colorize))
	fmt.Fprintln(out, renderStatusLine("Max position error", statusInfo, formatError(run.MaxPositionError), colorize))
	fmt.Fprintln(out, renderStatusLine("Mean position error", statusInfo, formatError(run.MeanPositionError), colorize))
	if run.ArchivePath != "" {
		fmt.Fprintln(out, renderStatusLine("Output", statusInfo, run.ArchivePath, colorize))
	}
}
