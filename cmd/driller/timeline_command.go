package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"driller/internal/capture"
	"driller/internal/channelview"
	"driller/internal/config"
	"driller/internal/logging"
	"driller/internal/timeline"
)

type timelineOptions struct {
	at         int64
	frames     int
	rows       int
	follow     bool
	jsonOutput bool
	noColor    bool
}

type timelineJSON struct {
	Capture *capture.Capture         `json:"capture"`
	First   int64                    `json:"first"`
	Last    int64                    `json:"last"`
	Frames  []timeline.FrameSnapshot `json:"frames"`
}

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	var opts timelineOptions

	cmd := &cobra.Command{
		Use:   "timeline <capture>",
		Short: "Render a capture's merged channels as a text timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.follow && opts.jsonOutput {
				return fmt.Errorf("--follow and --json are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			atSet := cmd.Flags().Changed("at")
			return ctx.withSession(cmd, args[0], func(ctx context.Context, store *capture.Store, session *capture.Session) error {
				view := newSessionView(cfg, session)
				frames := int64(cfg.View.FramesInView)
				if opts.frames > 0 {
					frames = int64(opts.frames)
				}
				viewport := func() channelview.Viewport {
					vp := sessionViewport(session, frames)
					if atSet {
						vp.Rightmost = opts.at
					}
					return vp
				}

				view.Recalculate(viewport())
				if opts.jsonOutput {
					first, last, _ := view.CachedRange()
					frames := timeline.Snapshot(view, session.Index, channelNames(session))
					if frames == nil {
						frames = []timeline.FrameSnapshot{}
					}
					return writeJSON(cmd, timelineJSON{
						Capture: session.Capture,
						First:   first,
						Last:    last,
						Frames:  frames,
					})
				}

				out := cmd.OutOrStdout()
				render := timelineRenderOptions(session, opts.rows, !opts.noColor && shouldColorize(out))
				writeTimeline(out, session, view, render)
				if !opts.follow {
					return nil
				}
				return followTimeline(ctx, store, session, view, viewport, func() {
					writeTimeline(out, session, view, render)
				})
			})
		},
	}

	cmd.Flags().Int64Var(&opts.at, "at", 0, "Rightmost visible frame (defaults to the capture's last frame)")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "Frames in view (defaults to view.frames_in_view)")
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "Plot height in text rows")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Re-render when the capture database changes")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the cached frames as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	return cmd
}

// newSessionView builds a view over the session series using the configured
// geometry. A zero max_value scales to the capture's largest sample.
func newSessionView(cfg *config.Config, session *capture.Session) *channelview.View {
	geometry := channelview.Geometry{
		BarWidth:    cfg.View.BarWidth,
		Height:      cfg.View.Height,
		PointHeight: cfg.View.PointHeight,
		MaxValue:    cfg.View.MaxValue,
	}
	if geometry.MaxValue <= 0 {
		geometry.MaxValue = capture.MaxValue(session.Series)
	}
	return channelview.New(session.Logger(), geometry, session.Aggregators()...)
}

// sessionViewport anchors the window at the last frame of the capture.
// Capture frames are inclusive; the viewport end is one past the last.
func sessionViewport(session *capture.Session, framesInView int64) channelview.Viewport {
	return channelview.Viewport{
		Begin:        session.Capture.BeginFrame,
		End:          session.Capture.EndFrame + 1,
		Rightmost:    session.Capture.EndFrame,
		FramesInView: framesInView,
	}
}

func channelNames(session *capture.Session) []string {
	names := make([]string, len(session.Series))
	for i, s := range session.Series {
		names[i] = s.Channel
	}
	return names
}

func timelineRenderOptions(session *capture.Session, rows int, color bool) timeline.Options {
	legend := make([]timeline.LegendEntry, 0, len(session.Series))
	for _, s := range session.Series {
		legend = append(legend, timeline.LegendEntry{
			Name:    s.Channel,
			Color:   s.Color(),
			Enabled: s.IsActive(),
		})
	}
	return timeline.Options{Rows: rows, Color: color, Legend: legend}
}

func writeTimeline(out io.Writer, session *capture.Session, view *channelview.View, opts timeline.Options) {
	first, last, ok := view.CachedRange()
	if ok {
		fmt.Fprintf(out, "%s (%s) frames %d-%d of %d-%d\n",
			session.Capture.Name, session.Capture.ShortID(), first, last,
			session.Capture.BeginFrame, session.Capture.EndFrame)
	}
	fmt.Fprint(out, timeline.Render(view, session.Index, opts))
}

// followTimeline reloads the session and repaints on every database change
// until ctx is cancelled.
func followTimeline(ctx context.Context, store *capture.Store, session *capture.Session, view *channelview.View, viewport func() channelview.Viewport, repaint func()) error {
	watcher, err := store.Watch(ctx)
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger := logging.WithContext(ctx, session.Logger())
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			if err := session.Reload(ctx); err != nil {
				logger.Warn("reload capture failed", logging.Error(err))
				continue
			}
			view.SetAggregators(session.Aggregators()...)
			stats := view.Recalculate(viewport())
			logger.Debug("timeline refreshed",
				logging.Int("computed", stats.Computed),
				logging.Int("reused", stats.Reused),
			)
			repaint()
		}
	}
}
