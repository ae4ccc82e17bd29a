package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "inspect INPUT",
		Short:       "Show the contents of an animation document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			skel, anim, err := doc.Decode()
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeInspectJSON(cmd, skel, anim)
			}
			printInspect(cmd, skel, anim)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the summary as JSON")
	return cmd
}

func writeInspectJSON(cmd *cobra.Command, skel *skeleton.Skeleton, anim *rawanim.Animation) error {
	type jsonTrack struct {
		Joint        int    `json:"joint"`
		Name         string `json:"name,omitempty"`
		Translations int    `json:"translations"`
		Rotations    int    `json:"rotations"`
		Scales       int    `json:"scales"`
	}
	tracks := make([]jsonTrack, 0, anim.NumTracks())
	for i := range anim.Tracks {
		tr := &anim.Tracks[i]
		entry := jsonTrack{
			Joint:        i,
			Translations: len(tr.Translations),
			Rotations:    len(tr.Rotations),
			Scales:       len(tr.Scales),
		}
		if skel != nil {
			entry.Name = skel.JointName(i)
		}
		tracks = append(tracks, entry)
	}
	payload := map[string]any{
		"animation": anim.Name,
		"duration":  anim.Duration,
		"tracks":    tracks,
		"key_count": anim.KeyCount(),
	}
	if skel != nil {
		payload["joint_count"] = skel.NumJoints()
	}
	return writeJSON(cmd, payload)
}

func printInspect(cmd *cobra.Command, skel *skeleton.Skeleton, anim *rawanim.Animation) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Animation %q, duration %gs, %s keys across %d tracks\n",
		anim.Name, anim.Duration, formatCount(anim.KeyCount()), anim.NumTracks())
	if skel == nil {
		fmt.Fprintln(out, "No skeleton in document")
	} else {
		fmt.Fprintf(out, "Skeleton with %d joints, %d roots\n", skel.NumJoints(), len(skel.Roots()))
	}

	rows := make([][]string, 0, anim.NumTracks())
	for i := range anim.Tracks {
		tr := &anim.Tracks[i]
		name := fmt.Sprintf("#%d", i)
		depth := 0
		if skel != nil {
			name = skel.JointName(i)
			depth = skel.Depth(i)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			name,
			fmt.Sprintf("%d", depth),
			fmt.Sprintf("%d", len(tr.Translations)),
			fmt.Sprintf("%d", len(tr.Rotations)),
			fmt.Sprintf("%d", len(tr.Scales)),
		})
	}
	table := renderTable(
		[]string{"Joint", "Name", "Depth", "Translations", "Rotations", "Scales"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(out, table)
}
