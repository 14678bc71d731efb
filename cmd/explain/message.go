package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

var rawMessage bool

var messageCmd = &cobra.Command{
	Use:   "message <text>",
	Short: "Explain a piece of text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMessage,
}

func init() {
	messageCmd.Flags().BoolVar(&rawMessage, "raw", false, "send the text as the prompt without the explain template")
	rootCmd.AddCommand(messageCmd)
}

func runMessage(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	req := services.DirectMessageRequest{Message: strings.Join(args, " "), Raw: rawMessage}
	return a.Explainer.ExplainMessage(cmd.Context(), req, stream.NewEventWriter(os.Stdout))
}
