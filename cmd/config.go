package cmd

import (
	"github.com/shiroyk/weburl/config"
	"github.com/spf13/cobra"
)

var configGenArg string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "weburl configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configGenArg != "" {
			return config.WriteConfig(configGenArg)
		}
		return output(cmd.OutOrStdout(), formatYAML, config.FromContext(cmd.Context()))
	},
}

func init() {
	configCmd.Flags().StringVarP(&configGenArg, "gen", "g", "", "generate default configuration file")
	rootCmd.AddCommand(configCmd)
}
