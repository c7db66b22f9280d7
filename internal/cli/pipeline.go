package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/ingest"
	"github.com/trendpress/trendpress/internal/logging"
	"github.com/trendpress/trendpress/internal/notify"
	"github.com/trendpress/trendpress/internal/publish"
	"github.com/trendpress/trendpress/internal/source"
	"github.com/trendpress/trendpress/internal/store"
	"github.com/trendpress/trendpress/internal/summarize"
)

// pipeline holds the wired components shared by the CLI commands.
type pipeline struct {
	cfg    *config.Config
	log    *logrus.Logger
	store  *store.Store
	social *ingest.SocialTask
	agg    *ingest.Aggregator
}

func buildPipeline() (*pipeline, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.NewWithService(cfg.Log.Level, "trendpress")

	db, err := store.Open(cfg.Storage.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	notifier := notify.NewBark(cfg.Notify.APIBase, cfg.Notify.Key, log)

	fetcher, err := source.NewSocial(cfg.Sources.Social.APIBase, cfg.Sources.Social.APIKey)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create social client: %w", err)
	}

	socialTask := ingest.NewSocialTask(
		db,
		fetcher,
		cfg.Sources.Social.Accounts,
		cfg.Sources.Social.Lookback.Duration,
		notifier,
		log,
	)

	var extractor ingest.PageExtractor
	if len(cfg.Sources.Web.Pages) > 0 {
		if cfg.Sources.Web.APIKey == "" {
			log.Warn("web pages configured but extraction API key is empty, skipping page sources")
		} else {
			ex, err := source.NewExtractor(cfg.Sources.Web.APIBase, cfg.Sources.Web.APIKey)
			if err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("create extractor: %w", err)
			}
			extractor = ex
		}
	}

	var feeds ingest.FeedFetcher
	if len(cfg.Sources.Feeds) > 0 {
		fs, err := source.NewFeeds(cfg.Sources.Feeds)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create feed source: %w", err)
		}
		feeds = fs
	}

	webTask := ingest.NewWebTask(extractor, cfg.Sources.Web.Pages, feeds, cfg.Sources.Social.Lookback.Duration, log)

	var drafter summarize.Drafter
	if cfg.Draft.Mode == "llm" && cfg.Draft.LLM.APIKey != "" {
		drafter, err = summarize.NewLLM(cfg.Draft.LLM.Endpoint, cfg.Draft.LLM.APIKey, cfg.Draft.LLM.Model)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create drafter: %w", err)
		}
	} else {
		if cfg.Draft.Mode == "llm" {
			log.Warn("draft mode is llm but API key is empty, using passthrough drafts")
		}
		drafter = &summarize.PassthroughDrafter{}
	}

	var publisher ingest.Publisher
	if cfg.Publish.AppID != "" && cfg.Publish.AppSecret != "" {
		client, err := publish.NewClient(cfg.Publish.APIBase, cfg.Publish.AppID, cfg.Publish.AppSecret)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create publish client: %w", err)
		}
		publisher = publish.NewDispatcher(client, publish.Options{
			TitlePrefix:  cfg.Publish.TitlePrefix,
			Author:       cfg.Publish.Author,
			ThumbMediaID: cfg.Publish.ThumbMediaID,
			DigestLength: cfg.Publish.DigestLength,
			Location:     cfg.Location(),
		})
	} else {
		log.Warn("publish credentials not configured, drafts will be printed to stdout")
		publisher = stdoutPublisher{titlePrefix: cfg.Publish.TitlePrefix}
	}

	agg := ingest.NewAggregator(db, webTask, drafter, publisher, notifier, log)

	return &pipeline{
		cfg:    cfg,
		log:    log,
		store:  db,
		social: socialTask,
		agg:    agg,
	}, nil
}

func (p *pipeline) Close() {
	if p == nil || p.store == nil {
		return
	}
	_ = p.store.Close()
}

// stdoutPublisher renders a draft to stdout instead of submitting it, used
// when no platform credentials are configured.
type stdoutPublisher struct {
	titlePrefix string
}

func (s stdoutPublisher) Publish(_ context.Context, draft *summarize.Draft) error {
	fmt.Fprintln(os.Stdout, publish.RenderHTML(draft, s.titlePrefix))
	return nil
}
