package dashboard

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/internal/common"
	"github.com/dtnitsch/scholarship-tracker/models"
	"github.com/dtnitsch/scholarship-tracker/pkg/browser"
	"github.com/dtnitsch/scholarship-tracker/pkg/caching"
	"github.com/dtnitsch/scholarship-tracker/pkg/classifier"
	"github.com/dtnitsch/scholarship-tracker/pkg/db"
	"github.com/dtnitsch/scholarship-tracker/pkg/extractor"
	"github.com/dtnitsch/scholarship-tracker/pkg/fetcher"
	"github.com/dtnitsch/scholarship-tracker/pkg/language"
	"github.com/dtnitsch/scholarship-tracker/pkg/parser"
	"github.com/dtnitsch/scholarship-tracker/pkg/render"
	"github.com/dtnitsch/scholarship-tracker/pkg/review"
	"github.com/dtnitsch/scholarship-tracker/pkg/store"
)

// Session is a controller wired to the on-disk database for one command.
type Session struct {
	*Controller
	DB     *db.DB
	Config *models.Config
}

func (s *Session) Close() error {
	return s.DB.Close()
}

// ConfigFromCLI loads the config file and applies flag overrides.
func ConfigFromCLI(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("delay") {
		cfg.Review.Delay = c.Duration("delay")
	}
	if c.IsSet("load-timeout") {
		cfg.Review.LoadTimeout = c.Duration("load-timeout")
	}
	if c.IsSet("model") {
		cfg.Gemini.Model = c.String("model")
	}
	if c.IsSet("cache-max-age") {
		cfg.Fetch.MaxAge = c.Duration("cache-max-age")
	}
	return cfg, nil
}

// Open builds a Session from the command line context.
func Open(c *cli.Context) (*Session, error) {
	logger := common.NewLogger(c)

	cfg, err := ConfigFromCLI(c)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cache, err := caching.NewCache(cfg.Fetch.CacheDir, cfg.Fetch.MaxAge)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	ctrl := Build(cfg, database, cache, logger)
	return &Session{Controller: ctrl, DB: database, Config: cfg}, nil
}

// Build wires every component of the controller over database.
func Build(cfg *models.Config, database *db.DB, cache *caching.Cache, logger *slog.Logger) *Controller {
	st := store.New(database)

	fetcherOpts := []fetcher.Option{}
	if cfg.Fetch.UserAgent != "" {
		fetcherOpts = append(fetcherOpts, fetcher.WithUserAgent(cfg.Fetch.UserAgent))
	}
	f := fetcher.NewFetcher(fetcherOpts...)

	p := &parser.Parser{Mode: parser.ModeBody}
	if cfg.Fetch.MainContent {
		p.Mode = parser.ModeMainContent
	}

	reviewer := review.NewReviewer(st,
		browser.NewHTTPBrowser(f, p, cache, logger),
		classifier.NewClient(classifier.Config{
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Gemini.Timeout,
		}),
		review.WithHistory(database),
		review.WithLanguageDetector(language.NewDetector()),
		review.WithLogger(logger),
		review.WithStatusWriter(os.Stdout),
		review.WithLoadTimeout(cfg.Review.LoadTimeout),
		review.WithTextLimit(cfg.Review.TextLimit),
	)

	return New(Deps{
		Store:     st,
		Extractor: extractor.New(cfg.ExcludeDomain),
		Fetcher:   f,
		Reviewer:  reviewer,
		Batch:     review.NewBatch(reviewer, cfg.Review.Delay, review.WithLockPath(database.Path()+".review.lock")),
		History:   database,
		Logger:    logger,
		Out:       os.Stdout,
		Status:    os.Stdout,
		Colorize:  render.ShouldColorize(os.Stdout),
	})
}
