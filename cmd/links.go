package cmd

import (
	"io"
	"os"

	"github.com/shiroyk/weburl"
	"github.com/shiroyk/weburl/links"
	"github.com/spf13/cobra"
)

var (
	linksBaseArg     string
	linksSelectorArg string
	linksFormatArg   string
)

var linksCmd = &cobra.Command{
	Use:   "links <file|->",
	Short: "resolve the links of the HTML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var base *weburl.URL
		if linksBaseArg != "" {
			u, err := weburl.Parse(linksBaseArg, nil)
			if err != nil {
				return err
			}
			base = u
		}

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		result, err := links.Resolve(r, base, linksSelectorArg)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), linksFormatArg, result)
	},
}

func init() {
	linksCmd.Flags().StringVarP(&linksBaseArg, "base", "b", "", "the document URL")
	linksCmd.Flags().StringVarP(&linksSelectorArg, "selector", "s", links.DefaultSelector, "the CSS selector of the link elements")
	linksCmd.Flags().StringVarP(&linksFormatArg, "format", "f", formatJSON, "output format, json or yaml")
	rootCmd.AddCommand(linksCmd)
}
