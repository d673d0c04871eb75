package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"driller/internal/annotations"
	"driller/internal/capture"
)

type annotationJSON struct {
	Event   int64  `json:"event"`
	Frame   int64  `json:"frame"`
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func newAnnotationsCommand(ctx *commandContext) *cobra.Command {
	var (
		frame      int64
		event      int64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "annotations <capture>",
		Short: "List a capture's annotations, optionally for one frame or event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byFrame := cmd.Flags().Changed("frame")
			byEvent := cmd.Flags().Changed("event")
			if byFrame && byEvent {
				return fmt.Errorf("--frame and --event are mutually exclusive")
			}
			return ctx.withSession(cmd, args[0], func(_ context.Context, _ *capture.Store, session *capture.Session) error {
				var selected []annotations.Annotation
				switch {
				case byFrame:
					selected = session.Index.AtFrame(frame)
				case byEvent:
					if c := session.Index.ForEvent(event); c.Valid() {
						selected = append(selected, c.Annotation())
					}
				default:
					selected = session.Index.All()
				}

				if jsonOutput {
					payload := make([]annotationJSON, 0, len(selected))
					for _, a := range selected {
						payload = append(payload, annotationJSON{
							Event:   a.EventIndex,
							Frame:   a.FrameIndex,
							Channel: a.ChannelName,
							Text:    a.Text,
						})
					}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				if len(selected) == 0 {
					switch {
					case byFrame:
						fmt.Fprintf(out, "No annotations on frame %d\n", frame)
					case byEvent:
						fmt.Fprintf(out, "No annotation for event %d\n", event)
					default:
						fmt.Fprintln(out, "No annotations")
					}
					return nil
				}
				rows := make([][]string, 0, len(selected))
				for _, a := range selected {
					channel := a.ChannelName
					if channel == "" {
						channel = "-"
					}
					rows = append(rows, []string{
						strconv.FormatInt(a.FrameIndex, 10),
						strconv.FormatInt(a.EventIndex, 10),
						channel,
						a.Text,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Frame", "Event", "Channel", "Text"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&frame, "frame", 0, "Only annotations on this frame")
	cmd.Flags().Int64Var(&event, "event", 0, "Only the annotation for this event index")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
