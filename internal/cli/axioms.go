package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/sfh/internal/compliance"
)

func newAxiomsCommand() *cobra.Command {
	var critical bool
	cmd := &cobra.Command{
		Use:   "axioms",
		Short: "List the compliance axioms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			axioms := compliance.Axioms
			if critical {
				axioms = compliance.CriticalAxioms()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSEVERITY\tCATEGORY\tREPAIR\tDESCRIPTION")
			for _, a := range axioms {
				repair := "-"
				if _, ok := compliance.GetRepairTemplate(a.ID); ok {
					repair = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Severity, a.Category, repair, a.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&critical, "critical", false, "only critical axioms")
	return cmd
}
