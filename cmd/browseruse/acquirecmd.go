package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kudosx/claude-skill-browser-use/acquire"
	"github.com/kudosx/claude-skill-browser-use/imagesearch"
	"github.com/kudosx/claude-skill-browser-use/materialize"
)

type acquireFlags struct {
	count        int
	minDimension int
	minDuration  int
	maxDuration  int
	dateFrom     string
	dateTo       string
	account      string
	size         string
	quality      string
}

func (f *acquireFlags) constraints() (acquire.Constraints, error) {
	c := acquire.Constraints{
		Count:        f.count,
		MinDimension: f.minDimension,
		MinDuration:  f.minDuration,
		MaxDuration:  f.maxDuration,
	}
	var err error
	if f.dateFrom != "" {
		c.DateFrom, err = time.Parse("2006-01-02", f.dateFrom)
		if err != nil {
			return c, fmt.Errorf("--date-from: %w", err)
		}
	}
	if f.dateTo != "" {
		c.DateTo, err = time.Parse("2006-01-02", f.dateTo)
		if err != nil {
			return c, fmt.Errorf("--date-to: %w", err)
		}
	}
	return c, nil
}

func parseSize(s string) (imagesearch.SizeFilter, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return imagesearch.SizeAny, nil
	case "large":
		return imagesearch.SizeLarge, nil
	case "medium":
		return imagesearch.SizeMedium, nil
	case "icon":
		return imagesearch.SizeIcon, nil
	default:
		return "", fmt.Errorf("unknown size %q (any, large, medium, icon)", s)
	}
}

func newImagesCmd(root *rootFlags) *cobra.Command {
	flags := &acquireFlags{}

	cmd := &cobra.Command{
		Use:   "images <query>",
		Short: "Search for images and download the matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			size, err := parseSize(flags.size)
			if err != nil {
				return err
			}
			return runAcquire(cmd, cfg, logger, args[0], acquire.CapabilityImage, flags,
				stackOptions{account: flags.account, size: size})
		},
	}

	cmd.Flags().IntVarP(&flags.count, "count", "n", 5, "number of images to acquire")
	cmd.Flags().IntVar(&flags.minDimension, "min-dimension", 0, "minimum pixels on the smaller side")
	cmd.Flags().StringVar(&flags.size, "size", "any", "size class: any, large, medium, icon")
	cmd.Flags().StringVar(&flags.dateFrom, "date-from", "", "earliest publication date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.dateTo, "date-to", "", "latest publication date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.account, "account", "", "use a saved login profile")
	return cmd
}

func newVideosCmd(root *rootFlags) *cobra.Command {
	flags := &acquireFlags{}

	cmd := &cobra.Command{
		Use:   "videos <query>",
		Short: "Search for videos and download the matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			quality := materialize.Quality(flags.quality)
			if !quality.Valid() {
				return fmt.Errorf("unknown quality %q (best, 1080p, 720p, 480p, 360p, audio)", flags.quality)
			}
			return runAcquire(cmd, cfg, logger, args[0], acquire.CapabilityVideo, flags,
				stackOptions{account: flags.account, quality: quality})
		},
	}

	cmd.Flags().IntVarP(&flags.count, "count", "n", 3, "number of videos to acquire")
	cmd.Flags().IntVar(&flags.minDuration, "min-duration", 0, "minimum length in minutes")
	cmd.Flags().IntVar(&flags.maxDuration, "max-duration", 0, "maximum length in minutes")
	cmd.Flags().StringVar(&flags.dateFrom, "date-from", "", "earliest upload date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.dateTo, "date-to", "", "latest upload date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.quality, "quality", "best", "download quality: best, 1080p, 720p, 480p, 360p, audio")
	cmd.Flags().StringVar(&flags.account, "account", "", "use a saved login profile")
	return cmd
}

func runAcquire(cmd *cobra.Command, cfg *Config, logger *slog.Logger, query string, capability acquire.Capability, flags *acquireFlags, opts stackOptions) error {
	constraints, err := flags.constraints()
	if err != nil {
		return err
	}

	s, err := buildStack(cfg, logger, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.orch.Acquire(cmd.Context(), acquire.Request{
		Query:       query,
		Capability:  capability,
		Constraints: constraints,
	})
	if err != nil {
		return err
	}
	return printReport(report)
}

// printReport writes the report as indented JSON to stdout.
func printReport(report *acquire.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
