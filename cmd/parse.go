package cmd

import (
	"github.com/shiroyk/weburl"
	"github.com/spf13/cobra"
)

var (
	parseBaseArg   string
	parseFormatArg string
)

var parseCmd = &cobra.Command{
	Use:   "parse <input>",
	Short: "parse the URL and print its components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := weburl.ParseRef(args[0], parseBaseArg)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), parseFormatArg, u.Components())
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseBaseArg, "base", "b", "", "the base URL to resolve against")
	parseCmd.Flags().StringVarP(&parseFormatArg, "format", "f", formatJSON, "output format, json or yaml")
	rootCmd.AddCommand(parseCmd)
}
