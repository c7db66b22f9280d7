package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trendpress/trendpress/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config directory with an example config file",
	RunE:  initAction,
}

func initAction(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	wrote, err := writeIfNotExists(configPath, []byte(exampleConfig))
	if err != nil {
		return err
	}

	if !wrote {
		fmt.Printf("Config directory %s already initialized.\n", configDir)
	} else {
		fmt.Printf("Initialized %s.\n", configDir)
	}
	return nil
}

// writeIfNotExists writes data to path if the file does not exist.
// Returns true if the file was created.
func writeIfNotExists(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  exists: %s\n", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created: %s\n", path)
	return true, nil
}

const exampleConfig = `# trendpress configuration

sources:
  social:
    api_key_env: SOCIAL_API_KEY
    lookback: 24h
    accounts:
      - "https://x.com/OpenAI"
      - "https://x.com/AnthropicAI"
  web:
    api_key_env: SCRAPE_API_KEY
    pages: []
    # - "https://news.ycombinator.com"
  feeds: []
  # - "https://example.com/ai/feed.xml"

storage:
  path: .trendpress/trendpress.db

schedule:
  timezone: "UTC"
  social: "*/15 * * * *"
  daily: "0 17 * * *"

draft:
  mode: llm
  llm:
    api_key_env: LLM_API_KEY
    # endpoint: https://api.together.xyz/v1/chat/completions
    # model: meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo

publish:
  app_id_env: PLATFORM_APP_ID
  app_secret_env: PLATFORM_APP_SECRET
  title_prefix: "AI Trends Daily"
  author: "trendpress"
  thumb_media_id: ""
  digest_length: 120

notify:
  key_env: BARK_KEY

log:
  level: info
`
