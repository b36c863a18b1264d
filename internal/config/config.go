package config

import (
	"flag"
	"time"
)

const defaultPageURL = "https://www.analogue.co/support/3d/firmware/latest"

type Config struct {
	PageURL string

	// Target, when set, bypasses volume enumeration and the interactive prompt.
	Target string

	StageDir   string
	KeepStaged bool

	Timeout time.Duration
}

func FromFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.PageURL, "page", defaultPageURL, "vendor firmware page URL")
	flag.StringVar(&cfg.Target, "target", "", "SD card root; skips interactive volume selection")
	flag.StringVar(&cfg.StageDir, "stage", "", "staging directory for the download (default: fresh temp dir)")
	flag.BoolVar(&cfg.KeepStaged, "keep", false, "keep the staged download after a successful sync")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "HTTP timeout for the page fetch and the download")

	flag.Parse()

	return cfg
}
