package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/materialize"
)

// newDownloadCmd downloads explicit URLs, skipping search entirely.
func newDownloadCmd(root *rootFlags) *cobra.Command {
	var (
		kind    string
		quality string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "download <url>...",
		Short: "Download one or more URLs directly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}

			var transfer materialize.Transfer
			var workers int
			switch kind {
			case "image":
				dir := outDir
				if dir == "" {
					dir = cfg.Output.ImagesDir
				}
				transfer = materialize.NewImageTransfer(dir)
				workers = cfg.Materialize.ImageWorkers
			case "video":
				q := materialize.Quality(quality)
				if !q.Valid() {
					return fmt.Errorf("unknown quality %q", quality)
				}
				dir := outDir
				if dir == "" {
					dir = cfg.Output.VideosDir
				}
				transfer = materialize.NewVideoTransfer(dir, q, logger)
				workers = cfg.Materialize.VideoWorkers
				if workers <= 0 {
					workers = materialize.DefaultVideoWorkers
				}
			default:
				return fmt.Errorf("unknown type %q (image, video)", kind)
			}

			pool := materialize.NewPool(transfer, materialize.PoolConfig{
				Workers:     workers,
				ItemTimeout: time.Duration(cfg.Materialize.ItemTimeout),
				HostRate:    rate.Limit(cfg.Materialize.HostRate),
				Logger:      logger,
			})

			// Identical sources materialize once.
			seen := make(map[string]bool)
			var candidates []acquire.Candidate
			for _, u := range args {
				key, err := acquire.NormalizeURL(u)
				if err != nil {
					return fmt.Errorf("bad url %q: %w", u, err)
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				candidates = append(candidates, acquire.Candidate{SourceURL: u, Tier: "direct"})
			}

			outcomes := pool.Materialize(cmd.Context(), candidates)
			failed := 0
			for _, out := range outcomes {
				if out.OK() {
					fmt.Printf("ok\t%s\t%d bytes\n", out.LocalPath, out.ByteSize)
				} else {
					failed++
					fmt.Printf("fail\t%s\t%s\n", out.Candidate.SourceURL, out.Failure)
				}
			}
			if failed == len(outcomes) {
				return fmt.Errorf("all %d downloads failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "image", "payload type: image or video")
	cmd.Flags().StringVar(&quality, "quality", "best", "video quality: best, 1080p, 720p, 480p, 360p, audio")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "destination directory (default from config)")
	return cmd
}
