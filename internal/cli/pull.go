package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Run one social polling cycle",
	RunE:  pullAction,
}

func pullAction(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.social.Run(cmd.Context()); err != nil {
		return fmt.Errorf("social cycle: %w", err)
	}

	items, err := p.store.ListAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	fmt.Printf("Pending batch holds %d items.\n", len(items))
	return nil
}
