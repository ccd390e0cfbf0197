package cmd

import (
	"fmt"

	"github.com/shiroyk/weburl"
	"github.com/spf13/cobra"
)

var domainUnicodeArg bool

var domainCmd = &cobra.Command{
	Use:   "domain <name>",
	Short: "convert the domain to ASCII (punycode) or Unicode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result string
		if domainUnicodeArg {
			result = weburl.DomainToUnicode(args[0])
		} else {
			result = weburl.DomainToASCII(args[0])
		}
		if result == "" {
			return fmt.Errorf("invalid domain %s", args[0])
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), result)
		return err
	},
}

func init() {
	domainCmd.Flags().BoolVarP(&domainUnicodeArg, "unicode", "u", false, "convert to Unicode")
	rootCmd.AddCommand(domainCmd)
}
