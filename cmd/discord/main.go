// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/storage"
	v "github.com/keshon/jukebox/internal/version"
	"github.com/keshon/jukebox/pkg/jobmgr"
)

const (
	pruneInterval  = time.Hour
	commandHistTTL = 30 * 24 * time.Hour
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[FATAL] ", err)
	}
	if cfg.DiscordToken == "" {
		log.Fatal("[FATAL] DISCORD_TOKEN is not set")
	}

	logs := logging.Setup(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	defer logs.Close()
	log.Printf("[INFO] %s", v.String())

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	jobs := jobmgr.NewManager(ctx, func(msg string) {
		logging.Debugf("[Jobs] %s", msg)
	})
	defer jobs.StopAll()

	if err := jobs.StartAsync("history-pruner", func(ctx context.Context) error {
		storage.RunPruner(ctx, store, pruneInterval, commandHistTTL)
		return nil
	}); err != nil {
		log.Fatal(err)
	}

	bot, err := discord.NewBot(cfg, store)
	if err != nil {
		log.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
		// let Run leave voice channels before storage closes
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
