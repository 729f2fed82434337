package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/sfh/internal/service"
)

func newChatCommand(opts *rootOptions) *cobra.Command {
	var (
		sessionID    string
		providerFlag string
	)
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message through the orchestrator and print the reply",
		Example: `  sfh chat --mock "I feel anxious when my partner doesn't text back"
  GROQ_API_KEY=... sfh chat --provider groq "How do I integrate my last journey?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.Chat(cmd.Context(), service.ChatInput{
				SessionID: sessionID,
				UserID:    "cli",
				Message:   strings.Join(args, " "),
				Provider:  providerFlag,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Response)
			fmt.Fprintln(w)
			fmt.Fprintf(w, "provider: %s  attempts: %d  latency: %.0fms  risk: %s\n",
				out.Metadata.Provider, out.Metadata.Attempts, out.Metadata.LatencyMs, out.Metadata.RiskLevel)
			printValidation(w, out.Validation)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (generated when empty)")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "preferred provider tag")
	return cmd
}
