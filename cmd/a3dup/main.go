package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"

	"a3dup/internal/config"
	"a3dup/internal/fetch"
	"a3dup/internal/locator"
	"a3dup/internal/selector"
	"a3dup/internal/sync"
	"a3dup/internal/volumes"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	cfg := config.FromFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client := &http.Client{Timeout: cfg.Timeout}

	logger.Printf("fetching latest firmware info from %s", cfg.PageURL)
	release, err := locator.Locate(ctx, client, cfg.PageURL)
	if err != nil {
		logger.Fatalf("locate firmware: %v", err)
	}
	logger.Printf("latest firmware: %s", release.Filename)

	stageDir := cfg.StageDir
	if stageDir == "" {
		stageDir, err = os.MkdirTemp("", "a3dup-*")
		if err != nil {
			logger.Fatalf("create staging dir: %v", err)
		}
		if cfg.KeepStaged {
			logger.Printf("staging in %s (kept after sync)", stageDir)
		} else {
			defer os.RemoveAll(stageDir)
		}
	}

	logger.Printf("downloading %s", release.Filename)
	lastDecile := int64(-1)
	staged, err := fetch.Download(ctx, client, release, stageDir, func(done, total int64) {
		if total <= 0 {
			return
		}
		decile := done * 10 / total
		if decile != lastDecile {
			lastDecile = decile
			logger.Printf("  %d%% (%s of %s)", decile*10, humanize.IBytes(uint64(done)), humanize.IBytes(uint64(total)))
		}
	})
	if err != nil {
		logger.Fatalf("download firmware: %v", err)
	}
	logger.Printf("staged %s", staged)

	target := cfg.Target
	if target == "" {
		logger.Printf("looking for SD cards / removable drives")
		vols := volumes.Detect().List()
		target, err = selector.Choose(os.Stdin, os.Stdout, vols)
		if err != nil {
			logger.Fatalf("select target: %v", err)
		}
	}
	targetDir, err := selector.Resolve(target)
	if err != nil {
		logger.Fatalf("resolve target: %v", err)
	}

	logger.Printf("copying %s to %s", release.Filename, targetDir)
	res, err := sync.Apply(staged, targetDir, release.Filename)
	if err != nil {
		logger.Fatalf("sync firmware: %v", err)
	}
	for _, name := range res.Removed {
		logger.Printf("  removed old firmware %s", name)
	}
	if len(res.Removed) == 0 {
		logger.Printf("  no old firmware files found")
	}
	logger.Printf("done: %s (%s, sha256 %s)", res.Placed, humanize.IBytes(uint64(res.Digest.Size)), res.Digest.SHA256)

	fmt.Println()
	fmt.Println("You can now safely eject the SD card and update your Analogue 3D.")
	fmt.Println("(Hold Pairing button + Power to install the update.)")
}
