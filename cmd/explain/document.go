package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/contexta-explain/internal/core"
	"github.com/markdave123-py/contexta-explain/internal/core/stream"
	"github.com/markdave123-py/contexta-explain/internal/services"
)

var documentCmd = &cobra.Command{
	Use:   "document <file.pdf>",
	Short: "Explain the contents of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	handle, err := a.Stager.Stage(cmd.Context(), filepath.Base(args[0]), f)
	if err != nil {
		return fmt.Errorf("stage document: %w", err)
	}

	err = a.Explainer.ExplainDocument(cmd.Context(), services.DocumentUploadRequest{Handle: handle}, stream.NewEventWriter(os.Stdout))
	if errors.Is(err, core.ErrInsufficientContent) {
		return errors.New("PDF is empty or unreadable")
	}
	return err
}
