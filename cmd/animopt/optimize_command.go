package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"animopt/internal/archive"
	"animopt/internal/config"
	"animopt/internal/history"
	"animopt/internal/optimizer"
	"animopt/internal/report"
)

func newOptimizeCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath     string
		toArchive      bool
		translationTol float64
		rotationTolDeg float64
		scaleTol       float64
		samples        int
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "optimize INPUT",
		Short: "Remove redundant keyframes from an animation document",
		Long: `Optimize removes keyframes that the playback sampler can reconstruct within
the configured tolerances. The input document must carry both a skeleton and
an animation. Rotation and scale budgets tighten automatically on joints with
long descendant chains, where small local errors amplify at the extremities.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()

			skel, src, err := loadRigDocument(args[0])
			if err != nil {
				return err
			}

			opt := optimizer.New(logger)
			opt.TranslationTolerance = cfg.Tolerances.Translation
			opt.RotationTolerance = cfg.RotationRadians()
			opt.ScaleTolerance = cfg.Tolerances.Scale
			if cmd.Flags().Changed("translation-tolerance") {
				opt.TranslationTolerance = translationTol
			}
			if cmd.Flags().Changed("rotation-tolerance") {
				opt.RotationTolerance = rotationTolDeg * math.Pi / 180
			}
			if cmd.Flags().Changed("scale-tolerance") {
				opt.ScaleTolerance = scaleTol
			}

			optimized, err := opt.Optimize(src, skel)
			if err != nil {
				return fmt.Errorf("optimize %s: %w", src.Name, err)
			}

			sampleCount := cfg.Report.SampleCount
			if cmd.Flags().Changed("samples") {
				sampleCount = samples
			}
			rep, err := report.NewMeasurer(logger).Measure(src, optimized, skel, sampleCount)
			if err != nil {
				return err
			}

			var writtenPath string
			if outputPath != "" {
				path, err := config.ExpandPath(outputPath)
				if err != nil {
					return err
				}
				if err := archive.Save(path, archive.NewDocument(skel, optimized)); err != nil {
					return err
				}
				writtenPath = path
			}
			if toArchive {
				path, err := archive.New(cfg.Paths.ArchiveDir, logger).Store(archive.NewDocument(skel, optimized))
				if err != nil {
					return err
				}
				writtenPath = path
			}

			var runID string
			if cfg.History.Enabled {
				store, err := history.Open(cfg.Paths.HistoryDB, cfg.History.MaxRuns)
				if err != nil {
					return err
				}
				defer store.Close()
				run, err := store.Record(cmd.Context(), history.Run{
					Animation:            src.Name,
					JointCount:           skel.NumJoints(),
					DurationSeconds:      src.Duration,
					TranslationTolerance: opt.TranslationTolerance,
					RotationTolerance:    opt.RotationTolerance,
					ScaleTolerance:       opt.ScaleTolerance,
					KeysBefore:           rep.KeysBefore,
					KeysAfter:            rep.KeysAfter,
					MaxPositionError:     rep.MaxPositionError,
					MeanPositionError:    rep.MeanPositionError,
					ArchivePath:          writtenPath,
				})
				if err != nil {
					return err
				}
				runID = run.ID
			}

			if jsonOutput {
				return writeOptimizeJSON(cmd, rep, runID, writtenPath)
			}
			printOptimizeSummary(cmd, rep, runID, writtenPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the optimized document to this path")
	cmd.Flags().BoolVar(&toArchive, "archive", false, "Store the optimized document in the configured archive directory")
	cmd.Flags().Float64Var(&translationTol, "translation-tolerance", 0, "Translation tolerance in scene units")
	cmd.Flags().Float64Var(&rotationTolDeg, "rotation-tolerance", 0, "Rotation tolerance in degrees")
	cmd.Flags().Float64Var(&scaleTol, "scale-tolerance", 0, "Scale tolerance per axis")
	cmd.Flags().IntVar(&samples, "samples", 0, "Sample count for the error report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}

func writeOptimizeJSON(cmd *cobra.Command, rep *report.Report, runID, writtenPath string) error {
	type jsonChannel struct {
		Before int `json:"before"`
		After  int `json:"after"`
	}
	type jsonJoint struct {
		Joint        int         `json:"joint"`
		Name         string      `json:"name"`
		Translations jsonChannel `json:"translations"`
		Rotations    jsonChannel `json:"rotations"`
		Scales       jsonChannel `json:"scales"`
	}
	joints := make([]jsonJoint, 0, len(rep.Joints))
	for _, j := range rep.Joints {
		joints = append(joints, jsonJoint{
			Joint:        j.Joint,
			Name:         j.Name,
			Translations: jsonChannel(j.Translations),
			Rotations:    jsonChannel(j.Rotations),
			Scales:       jsonChannel(j.Scales),
		})
	}
	return writeJSON(cmd, map[string]any{
		"animation":             rep.Animation,
		"keys_before":           rep.KeysBefore,
		"keys_after":            rep.KeysAfter,
		"compression":           rep.Compression(),
		"sample_count":          rep.SampleCount,
		"max_position_error":    rep.MaxPositionError,
		"mean_position_error":   rep.MeanPositionError,
		"median_position_error": rep.MedianPositionError,
		"joints":                joints,
		"run_id":                runID,
		"output_path":           writtenPath,
	})
}

func printOptimizeSummary(cmd *cobra.Command, rep *report.Report, runID, writtenPath string) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Optimized %q\n", rep.Animation)
	fmt.Fprintln(out, renderStatusLine("Keys", statusOK,
		fmt.Sprintf("%s -> %s (%s kept)", formatCount(rep.KeysBefore), formatCount(rep.KeysAfter), formatPercent(rep.Compression())), colorize))
	fmt.Fprintln(out, renderStatusLine("Max position error", statusInfo,
		fmt.Sprintf("%s over %d samples", formatError(rep.MaxPositionError), rep.SampleCount), colorize))
	fmt.Fprintln(out, renderStatusLine("Mean position error", statusInfo, formatError(rep.MeanPositionError), colorize))
	if writtenPath != "" {
		fmt.Fprintln(out, renderStatusLine("Output", statusOK, writtenPath, colorize))
	}
	if runID != "" {
		fmt.Fprintln(out, renderStatusLine("Run", statusInfo, runID, colorize))
	}

	rows := make([][]string, 0, len(rep.Joints))
	for _, j := range rep.Joints {
		rows = append(rows, []string{
			j.Name,
			fmt.Sprintf("%d/%d", j.Translations.After, j.Translations.Before),
			fmt.Sprintf("%d/%d", j.Rotations.After, j.Rotations.Before),
			fmt.Sprintf("%d/%d", j.Scales.After, j.Scales.Before),
		})
	}
	table := renderTable(
		[]string{"Joint", "Translations", "Rotations", "Scales"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(out, table)
}
