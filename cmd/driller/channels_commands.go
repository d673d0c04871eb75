package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"driller/internal/annotations"
	"driller/internal/capture"
	"driller/internal/palette"
)

type channelJSON struct {
	Name    string `json:"name"`
	CRC     string `json:"crc"`
	Enabled bool   `json:"enabled"`
	Color   string `json:"color"`
	Custom  bool   `json:"custom"`
}

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Inspect and configure channels",
	}

	channelsCmd.AddCommand(newChannelsListCommand(ctx))
	channelsCmd.AddCommand(newChannelsToggleCommand(ctx, "enable", true))
	channelsCmd.AddCommand(newChannelsToggleCommand(ctx, "disable", false))
	channelsCmd.AddCommand(newChannelsColorCommand(ctx))
	channelsCmd.AddCommand(newChannelsResetCommand(ctx))

	return channelsCmd
}

// withChannels builds a provider holding every channel the store knows
// about, from captures and persisted settings, with configuration layered
// the same way a capture session does it.
func (c *commandContext) withChannels(cmd *cobra.Command, fn func(context.Context, *capture.Store, *annotations.Provider) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	return c.withStore(cmd, func(ctx context.Context, store *capture.Store) error {
		logger, err := c.ensureLogger()
		if err != nil {
			return err
		}
		provider := annotations.NewProvider(logger)
		names, err := store.ChannelNames(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			provider.NotifyOfChannelExistence(name)
		}
		persisted, err := store.LoadChannelSettings(ctx)
		if err != nil {
			return err
		}
		for _, setting := range persisted {
			provider.NotifyOfChannelExistence(setting.Name)
		}
		if err := store.ConfigureChannels(ctx, provider, cfg); err != nil {
			return err
		}
		return fn(ctx, store, provider)
	})
}

func requireChannel(provider *annotations.Provider, name string) error {
	if !provider.HasChannel(name) {
		return fmt.Errorf("%w: channel %q", capture.ErrNotFound, name)
	}
	return nil
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known channels with their configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withChannels(cmd, func(_ context.Context, _ *capture.Store, provider *annotations.Provider) error {
				settings := provider.ChannelSettings()
				if jsonOutput {
					payload := make([]channelJSON, 0, len(settings))
					for _, s := range settings {
						payload = append(payload, channelJSON{
							Name:    s.Name,
							CRC:     fmt.Sprintf("%08x", s.CRC),
							Enabled: s.Enabled,
							Color:   s.Color.Hex(),
							Custom:  s.CustomColor,
						})
					}
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				if len(settings) == 0 {
					fmt.Fprintln(out, "No channels known; import a capture first")
					return nil
				}
				rows := make([][]string, 0, len(settings))
				for _, s := range settings {
					rows = append(rows, []string{
						s.Name,
						fmt.Sprintf("%08x", s.CRC),
						yesNo(s.Enabled),
						s.Color.Hex(),
						yesNo(s.CustomColor),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Channel", "CRC", "Enabled", "Color", "Custom"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newChannelsToggleCommand(ctx *commandContext, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <channel>...",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " channels in every capture view",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withChannels(cmd, func(ctx context.Context, store *capture.Store, provider *annotations.Provider) error {
				for _, name := range args {
					if err := requireChannel(provider, name); err != nil {
						return err
					}
				}
				out := cmd.OutOrStdout()
				for _, name := range args {
					provider.SetChannelEnabled(name, enabled)
					if err := store.SaveChannel(ctx, provider, name); err != nil {
						return err
					}
					fmt.Fprintf(out, "Channel %s %sd\n", name, verb)
				}
				return nil
			})
		},
	}
}

func newChannelsColorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "color <channel> <#rrggbb>",
		Short: "Set a custom channel color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := palette.ParseHex(args[1])
			if err != nil {
				return err
			}
			return ctx.withChannels(cmd, func(ctx context.Context, store *capture.Store, provider *annotations.Provider) error {
				name := args[0]
				if err := requireChannel(provider, name); err != nil {
					return err
				}
				provider.SetColorForChannel(name, color)
				if err := store.SaveChannel(ctx, provider, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Channel %s color set to %s\n", name, color.Hex())
				return nil
			})
		},
	}
}

func newChannelsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <channel>...",
		Short: "Restore default color and enable channels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withChannels(cmd, func(ctx context.Context, store *capture.Store, provider *annotations.Provider) error {
				for _, name := range args {
					if err := requireChannel(provider, name); err != nil {
						return err
					}
				}
				out := cmd.OutOrStdout()
				for _, name := range args {
					provider.ResetColorForChannel(name)
					provider.SetChannelEnabled(name, true)
					if err := store.SaveChannel(ctx, provider, name); err != nil {
						return err
					}
					fmt.Fprintf(out, "Channel %s reset to %s\n", name, provider.ColorForChannel(name).Hex())
				}
				return nil
			})
		},
	}
}
