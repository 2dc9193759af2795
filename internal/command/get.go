package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getDefault string

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one environment variable",
	Long: `Get prints the value of a variable after the layered .env files were
loaded. Values of sensitive variables (names containing TOKEN, SECRET,
PASSWORD, KEY or CREDENTIALS) are masked.`,
	Example: `  envproc get NODE_ENV
  envproc get GITHUB_TOKEN
  envproc get PORT --default 3000`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&getDefault, "default", "", "value printed when the variable is unset")
}

func runGet(cmd *cobra.Command, args []string) error {
	p, err := newProcessor(cmd.Context())
	if err != nil {
		return err
	}

	key := args[0]
	if cmd.Flags().Changed("default") {
		fmt.Fprintln(cmd.OutOrStdout(), p.GetDefault(key, getDefault))
		return nil
	}

	value, err := p.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
