package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSelectorsCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selectors",
		Short: "Print the resolved login form selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load(cmd)
			if err != nil {
				return err
			}
			form, err := cfg.LoginForm()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tSTRATEGY\tSELECTOR")
			fmt.Fprintf(w, "identifier\t%s\t%s\n", form.Identifier.Strategy, form.Identifier.Value)
			fmt.Fprintf(w, "secret\t%s\t%s\n", form.Secret.Strategy, form.Secret.Value)
			fmt.Fprintf(w, "submit\t%s\t%s\n", form.Submit.Strategy, form.Submit.Value)
			return w.Flush()
		},
	}
}
