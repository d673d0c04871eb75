package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"driller/internal/capture"
	"driller/internal/config"
	"driller/internal/fileutil"
	"driller/internal/textutil"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Import, inspect, and remove captures",
	}

	captureCmd.AddCommand(newCaptureImportCommand(ctx))
	captureCmd.AddCommand(newCaptureListCommand(ctx))
	captureCmd.AddCommand(newCaptureShowCommand(ctx))
	captureCmd.AddCommand(newCaptureRemoveCommand(ctx))
	captureCmd.AddCommand(newCaptureExportCommand(ctx))

	return captureCmd
}

func newCaptureImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import capture scripts (YAML or JSON)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					c, err := store.Import(ctx, path)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Imported %s (%s): %d channels, %d annotations, frames %d-%d\n",
						c.Name, c.ShortID(), len(c.Channels), c.AnnotationCount, c.BeginFrame, c.EndFrame)
				}
				return nil
			})
		},
	}
}

func newCaptureListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored captures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
				captures, err := store.List(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					if captures == nil {
						captures = []*capture.Capture{}
					}
					return writeJSON(cmd, captures)
				}
				out := cmd.OutOrStdout()
				if len(captures) == 0 {
					fmt.Fprintln(out, "No captures stored")
					return nil
				}
				rows := make([][]string, 0, len(captures))
				for _, c := range captures {
					rows = append(rows, []string{
						c.ShortID(),
						c.Name,
						fmt.Sprintf("%d-%d", c.BeginFrame, c.EndFrame),
						strconv.Itoa(len(c.Channels)),
						strconv.Itoa(c.AnnotationCount),
						formatTimestamp(c.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Frames", "Channels", "Annotations", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCaptureShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <capture>",
		Short: "Show one capture by ID, ID prefix, or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
				c, err := store.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, c)
				}
				source := c.Source
				if source == "" {
					source = "-"
				}
				channels := strings.Join(c.Channels, ", ")
				if channels == "" {
					channels = "-"
				}
				fmt.Fprint(cmd.OutOrStdout(), renderDetails([][2]string{
					{"ID", c.ID},
					{"Name", c.Name},
					{"Source", source},
					{"Frames", fmt.Sprintf("%d-%d (%d)", c.BeginFrame, c.EndFrame, c.FrameCount())},
					{"Channels", channels},
					{"Samples", strconv.Itoa(c.SampleCount)},
					{"Annotations", strconv.Itoa(c.AnnotationCount)},
					{"Created", formatTimestamp(c.CreatedAt)},
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCaptureRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <capture>...",
		Short: "Remove captures with their samples and annotations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
				out := cmd.OutOrStdout()
				for _, ref := range args {
					c, err := store.Resolve(ctx, ref)
					if err != nil {
						return err
					}
					if err := store.Remove(ctx, c.ID); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %s (%s)\n", c.Name, c.ShortID())
				}
				return nil
			})
		},
	}
}

func newCaptureExportCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "export <capture>",
		Short: "Write a stored capture back out as a YAML script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
				c, err := store.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				script, err := store.Export(ctx, c.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				target := strings.TrimSpace(outputPath)
				if target == "-" {
					return script.WriteYAML(out)
				}
				if target == "" {
					target = textutil.FileNameFor(c.Name, "yaml")
				} else if target, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := fileutil.WriteFileAtomic(target, 0o644, overwrite, script.WriteYAML); err != nil {
					if errors.Is(err, fileutil.ErrExists) {
						return fmt.Errorf("%w (use --overwrite to replace it)", err)
					}
					return err
				}
				fmt.Fprintf(out, "Exported %s (%s) to %s\n", c.Name, c.ShortID(), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file, or - for stdout (defaults to <name>.yaml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing destination file")
	return cmd
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
