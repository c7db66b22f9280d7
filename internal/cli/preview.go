package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trendpress/trendpress/internal/publish"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the pending batch without draining it",
	RunE:  previewAction,
}

func previewAction(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	items, err := p.store.ListAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}

	return publish.WritePreview(os.Stdout, items)
}
