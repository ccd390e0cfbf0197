package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shiroyk/weburl/config"
	"github.com/shiroyk/weburl/js"
	"github.com/shiroyk/weburl/modules"
	"github.com/spf13/cobra"

	_ "github.com/shiroyk/weburl/modules/url"
)

var (
	runTimeoutArg time.Duration
	runFormatArg  string
)

var runCmd = &cobra.Command{
	Use:   "run <script|-> [args...]",
	Short: "run the JavaScript module, the default export is called with the args",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout := runTimeoutArg
		if timeout == 0 {
			timeout = config.FromContext(cmd.Context()).JS.Timeout
		}
		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		value, err := runScript(ctx, cmd.InOrStdin(), args[0], args[1:])
		if err != nil {
			return err
		}
		if value == nil {
			return nil
		}
		return output(cmd.OutOrStdout(), runFormatArg, value)
	},
}

// runScript runs the script file, or the stdin if the name is "-".
// The relative modules are resolved against the script directory.
func runScript(ctx context.Context, stdin io.Reader, name string, args []string) (any, error) {
	var (
		source []byte
		err    error
		dir    string
	)
	if name == "-" {
		source, err = io.ReadAll(stdin)
		dir, _ = os.Getwd()
	} else {
		source, err = os.ReadFile(name)
		dir = filepath.Dir(name)
	}
	if err != nil {
		return nil, err
	}

	loader := modules.NewLoader(modules.WithBase(modules.FileURL(dir + string(filepath.Separator))))
	module, err := loader.CompileModule(name, string(source))
	if err != nil {
		return nil, err
	}

	vmArgs := make([]any, len(args))
	for i, arg := range args {
		vmArgs[i] = arg
	}
	vm := js.NewVM(js.WithLoader(loader))
	value, err := vm.RunModule(ctx, module, vmArgs...)
	if err != nil {
		return nil, err
	}
	return js.Unwrap(value)
}

func init() {
	runCmd.Flags().DurationVarP(&runTimeoutArg, "timeout", "t", 0, "run timeout, defaults to the js.timeout of the config")
	runCmd.Flags().StringVarP(&runFormatArg, "format", "f", formatJSON, "output format, json or yaml")
	rootCmd.AddCommand(runCmd)
}
