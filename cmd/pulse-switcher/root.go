package main

import (
	"github.com/spf13/cobra"

	"github.com/aswild/pulse-switcher/pkg/switcher"
)

// overridden at build time via -ldflags
var version = "dev"

func newRootCommand() *cobra.Command {
	var (
		verboseFlag int
		quietFlag   int
		configFlag  string
		notifyFlag  bool
	)

	var sw *switcher.Switcher

	rootCmd := &cobra.Command{
		Use:           "pulse-switcher",
		Short:         "Cycle the default PulseAudio output device",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := switcher.NewLogger(verboseFlag - quietFlag)
			if err != nil {
				return err
			}

			// tray mode always notifies, there's no console to report to
			sw, err = switcher.New(logger, switcher.Options{
				ConfigPath: configFlag,
				Notify:     notifyFlag || cmd.Name() == "tray",
			})
			if err != nil {
				return err
			}

			return sw.Initialize()
		},
		// list is the default command
		RunE: func(cmd *cobra.Command, args []string) error {
			return sw.List(cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "verbose output, can be repeated")
	rootCmd.PersistentFlags().CountVarP(&quietFlag, "quiet", "q", "quiet output, can be repeated")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file path (default $XDG_CONFIG_HOME/pulse-switcher/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&notifyFlag, "notify", false, "show a desktop notification when the default device changes")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all devices, matching devices, and the current default (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sw.List(cmd.OutOrStdout())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Set the next matching device as the new default device",
		Long: `Set the next matching device as the new default device.

The cycling order follows the order PulseAudio returns sinks in. If the
current default device doesn't match the configured patterns, the first
matching device is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sw.Next()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "tray",
		Short: "Run resident with a tray icon for one-click switching",
		RunE: func(cmd *cobra.Command, args []string) error {
			sw.SetVersion("pulse-switcher " + version)
			sw.RunTray()
			return nil
		},
	})

	return rootCmd
}
