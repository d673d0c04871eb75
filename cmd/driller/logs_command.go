package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"driller/internal/capture"
	"driller/internal/logs"
)

const logFollowWait = time.Second

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		follow     bool
		lines      int
		captureRef string
		command    string
		level      string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the driller log, optionally for one capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var minLevel slog.Level
			if err := minLevel.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
				return fmt.Errorf("invalid --level %q", level)
			}
			filter := logs.Filter{Command: strings.TrimSpace(command), MinLevel: minLevel}
			if ref := strings.TrimSpace(captureRef); ref != "" {
				filter.CaptureID, err = ctx.resolveCaptureID(cmd, ref)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			path := cfg.LogPath()

			result, err := logs.Tail(runCtx, path, logs.TailOptions{Offset: 0})
			if err != nil {
				return fmt.Errorf("read log: %w", err)
			}
			entries := filter.Apply(result.Lines)
			if lines > 0 && len(entries) > lines {
				entries = entries[len(entries)-lines:]
			}
			for _, e := range entries {
				fmt.Fprintln(out, e.Format())
			}
			if !follow {
				if len(entries) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			offset := result.Offset
			for {
				result, err := logs.Tail(runCtx, path, logs.TailOptions{Offset: offset, Follow: true, Wait: logFollowWait})
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("follow log: %w", err)
				}
				for _, e := range filter.Apply(result.Lines) {
					fmt.Fprintln(out, e.Format())
				}
				offset = result.Offset
				select {
				case <-runCtx.Done():
					return nil
				default:
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&captureRef, "capture", "", "Only entries for this capture (ID, ID prefix, or name)")
	cmd.Flags().StringVar(&command, "command", "", "Only entries from commands containing this text")
	cmd.Flags().StringVar(&level, "level", "info", "Minimum level: debug, info, warn, or error")
	return cmd
}

// resolveCaptureID maps ref to a stored capture ID. A reference that
// matches no stored capture is used as a raw ID prefix so logs of removed
// captures stay reachable.
func (c *commandContext) resolveCaptureID(cmd *cobra.Command, ref string) (string, error) {
	var id string
	err := c.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
		found, err := store.Resolve(ctx, ref)
		switch {
		case err == nil:
			id = found.ID
			return nil
		case errors.Is(err, capture.ErrNotFound):
			id = ref
			return nil
		default:
			return err
		}
	})
	return id, err
}
