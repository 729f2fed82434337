package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/sfh/internal/compliance"
	"github.com/xiaot623/gogo/sfh/internal/domain"
)

func newValidateCommand() *cobra.Command {
	var (
		risk     string
		asJSON   bool
		provider string
	)
	cmd := &cobra.Command{
		Use:   "validate [text]",
		Short: "Score a response and check it against the axiom table",
		Long:  "Validates the given text, or standard input when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			level := domain.RiskLevel(risk)
			switch level {
			case domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskEmergency:
			default:
				return fmt.Errorf("unknown risk level %q", risk)
			}
			session := domain.NewSession("cli", "cli")
			session.RiskLevel = level

			result := compliance.ValidateResponse(&domain.Response{Provider: provider, RawResponse: text}, session)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printValidation(w, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&risk, "risk", string(domain.RiskLow), "session risk level: low, medium, high, emergency")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&provider, "provider", "cli", "provider name recorded with the response")
	return cmd
}

func printValidation(w io.Writer, r domain.ValidationResult) {
	status := "FAIL"
	if r.Passed {
		status = "PASS"
	}
	fmt.Fprintf(w, "%s  coherence: %.2f (threshold %.2f)\n", status, r.CoherenceScore, compliance.PassThreshold)
	for _, v := range r.ViolatedAxioms {
		fmt.Fprintf(w, "  [%s] %s %s: %s\n", v.Severity, v.AxiomID, v.Description, v.ViolationDetails)
	}
	for _, s := range r.RepairSuggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
