package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "dutygrid",
		Short: "Render monthly duty calendars",
		Long: `dutygrid pivots a department's duty records for one month into a calendar grid
and publishes it as HTML, PNG and/or XLSX.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./config.yaml)")

	cmd.AddCommand(newRenderCmd(opts))
	return cmd
}
