package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/logging"
	"github.com/trendpress/trendpress/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and dependencies",
	RunE:  doctorAction,
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	ok := true

	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(false, "config directory %s", configDir)
		ok = false
	} else {
		printCheck(true, "config directory %s", configDir)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		printCheck(false, "config.yaml: %v", err)
		return fmt.Errorf("some checks failed")
	}
	printCheck(true, "config.yaml (%d social accounts, %d web pages, %d feeds)",
		len(cfg.Sources.Social.Accounts), len(cfg.Sources.Web.Pages), len(cfg.Sources.Feeds))

	db, err := store.Open(cfg.Storage.Path, logging.New(cfg.Log.Level))
	if err != nil {
		printCheck(false, "database: %v", err)
		ok = false
	} else {
		items, listErr := db.ListAll(cmd.Context())
		if listErr != nil {
			printCheck(false, "database read: %v", listErr)
			ok = false
		} else {
			printCheck(true, "database %s (%d pending items)", cfg.Storage.Path, len(items))
		}
		_ = db.Close()
	}

	checkKey := func(name, value string, required bool) {
		if value != "" {
			printCheck(true, "%s configured", name)
			return
		}
		if required {
			printCheck(false, "%s missing", name)
			ok = false
			return
		}
		printInfo("%s not configured", name)
	}

	checkKey("social API key", cfg.Sources.Social.APIKey, len(cfg.Sources.Social.Accounts) > 0)
	checkKey("extraction API key", cfg.Sources.Web.APIKey, len(cfg.Sources.Web.Pages) > 0)
	checkKey("LLM API key", cfg.Draft.LLM.APIKey, cfg.Draft.Mode == "llm")
	checkKey("publish app id", cfg.Publish.AppID, false)
	checkKey("publish app secret", cfg.Publish.AppSecret, false)
	checkKey("notify key", cfg.Notify.Key, false)

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}

func printCheck(pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Printf("[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Printf("[INFO] %s\n", fmt.Sprintf(format, args...))
}
