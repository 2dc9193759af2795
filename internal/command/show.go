package command

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pavlenkoa/envproc/internal/mask"
)

var showFingerprint bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the masked environment",
	Long: `Show prints every variable of the environment, sorted by name, with
sensitive values masked. With DEBUG=true the configuration is also logged.

--fingerprint appends a short digest of each sensitive value so that two
environments can be compared without revealing the secrets.`,
	Example: `  envproc show
  envproc show --fingerprint`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showFingerprint, "fingerprint", false, "print a digest of every sensitive value")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := newProcessor(ctx)
	if err != nil {
		return err
	}

	p.LogConfig(ctx)

	all := p.GetAllConfig()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	for _, k := range keys {
		if showFingerprint && mask.IsSensitiveKey(k) {
			if fp, err := p.Fingerprint(k); err == nil {
				fmt.Fprintf(out, "%s=%s  (%s)\n", k, all[k], fp)
				continue
			}
		}
		fmt.Fprintf(out, "%s=%s\n", k, all[k])
	}
	return nil
}
