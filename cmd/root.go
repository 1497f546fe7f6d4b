package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "iamad",
		Short:         "iamad: directory account lifecycle reconciler",
		Long:          "iamad scans directory accounts, classifies them by inactivity and expiration, notifies holders ahead of deactivation, disables stale accounts, and mails a summary report to the administrators.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newPreviewCmd(),
	)

	return rootCmd
}
