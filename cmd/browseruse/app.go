package main

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/browser"
	"github.com/kudosx/claude-skill-browser-use/history"
	"github.com/kudosx/claude-skill-browser-use/imagesearch"
	"github.com/kudosx/claude-skill-browser-use/materialize"
	"github.com/kudosx/claude-skill-browser-use/videosearch"
)

const probeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// stack is the assembled application: browser, tiers, pools, and history,
// torn down together by Close.
type stack struct {
	cfg     *Config
	logger  *slog.Logger
	manager *browser.Manager
	session *browser.Session
	store   *history.Store
	orch    *acquire.Orchestrator
}

// stackOptions carries the per-run knobs commands expose as flags.
type stackOptions struct {
	account string
	size    imagesearch.SizeFilter
	quality materialize.Quality
}

// buildStack wires the orchestrator from config. When an account is given
// and its profile is missing, the run degrades to an unauthenticated
// session with a warning instead of failing.
func buildStack(cfg *Config, logger *slog.Logger, opts stackOptions) (*stack, error) {
	s := &stack{cfg: cfg, logger: logger}

	mgrCfg := browser.Config{
		RemoteURL:        cfg.Browser.RemoteURL,
		Headless:         cfg.Browser.Headless,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		NavigateTimeout:  time.Duration(cfg.Browser.NavigateTimeout),
		Logger:           logger,
	}

	if opts.account != "" {
		profiles := browser.NewProfiles(cfg.ProfilesDir)
		session, err := profiles.Session(opts.account)
		if err != nil {
			logger.Warn("account profile unavailable, continuing unauthenticated",
				"account", opts.account, "error", err)
		} else {
			s.session = session
			mgrCfg.UserDataDir = session.UserDataDir
		}
	}
	s.manager = browser.NewManager(mgrCfg)

	var imageTiers []acquire.Tier
	if cfg.ImageAPI.URLTemplate != "" {
		imageTiers = append(imageTiers,
			imagesearch.NewAPITier(cfg.ImageAPI.URLTemplate, cfg.ImageAPI.Fetch))
	}
	imageTiers = append(imageTiers,
		imagesearch.NewScriptTier(s.manager, opts.size, logger),
		imagesearch.NewGalleryTier(s.manager, opts.size, logger),
	)

	videoTiers := []acquire.Tier{
		videosearch.NewYtdlpTier(logger),
		videosearch.NewInnerTubeTier(logger),
		videosearch.NewBrowserTier(s.manager, logger),
	}

	images := materialize.NewPool(
		materialize.NewImageTransfer(cfg.Output.ImagesDir),
		materialize.PoolConfig{
			Workers:     cfg.Materialize.ImageWorkers,
			ItemTimeout: time.Duration(cfg.Materialize.ItemTimeout),
			HostRate:    rate.Limit(cfg.Materialize.HostRate),
			Logger:      logger,
		})

	videoWorkers := cfg.Materialize.VideoWorkers
	if videoWorkers <= 0 {
		videoWorkers = materialize.DefaultVideoWorkers
	}
	videos := materialize.NewPool(
		materialize.NewVideoTransfer(cfg.Output.VideosDir, opts.quality, logger),
		materialize.PoolConfig{
			Workers:     videoWorkers,
			ItemTimeout: time.Duration(cfg.Materialize.ItemTimeout),
			Logger:      logger,
		})

	store, err := history.Open(cfg.HistoryDB, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	s.store = store

	s.orch = acquire.New(acquire.Config{
		ImageTiers: imageTiers,
		VideoTiers: videoTiers,
		Images:     images,
		Videos:     videos,
		Filter:     acquire.NewFilter(acquire.NewHTTPProber(probeUserAgent), logger),
		History:    store,
		Logger:     logger,
	})
	return s, nil
}

// Close tears the stack down in reverse construction order.
func (s *stack) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.manager != nil {
		s.manager.Close()
	}
	if s.session != nil {
		s.session.Release()
	}
}
