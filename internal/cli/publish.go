package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trendpress/trendpress/internal/ingest"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run one aggregate-and-publish cycle",
	RunE:  publishAction,
}

func publishAction(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	err = p.agg.Run(cmd.Context())
	if errors.Is(err, ingest.ErrDegraded) {
		fmt.Printf("Published with degraded sources: %v\n", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("daily cycle: %w", err)
	}

	fmt.Println("Daily cycle completed.")
	return nil
}
