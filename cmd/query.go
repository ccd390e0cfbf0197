package cmd

import (
	"github.com/shiroyk/weburl"
	"github.com/spf13/cobra"
)

var (
	querySortArg   bool
	queryFormatArg string
)

var queryCmd = &cobra.Command{
	Use:   "query <string>",
	Short: "decode the application/x-www-form-urlencoded string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := weburl.NewSearchParams(args[0])
		if querySortArg {
			params.Sort()
		}
		pairs := params.Pairs()
		if pairs == nil {
			pairs = []weburl.Pair{}
		}
		return output(cmd.OutOrStdout(), queryFormatArg, pairs)
	},
}

func init() {
	queryCmd.Flags().BoolVarP(&querySortArg, "sort", "s", false, "sort the pairs by name")
	queryCmd.Flags().StringVarP(&queryFormatArg, "format", "f", formatJSON, "output format, json or yaml")
	rootCmd.AddCommand(queryCmd)
}
