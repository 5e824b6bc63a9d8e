package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pricetrail/pkg/browser"
	"pricetrail/pkg/config"
	"pricetrail/pkg/crawler"
	"pricetrail/pkg/history"
	"pricetrail/pkg/logger"
	"pricetrail/pkg/runlog"
)

type options struct {
	configPath  string
	historyPath string
	ledgerPath  string
	category    string
	maxPages    int
	headless    bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.configPath, "config", envOr("CONFIG_FILE", "categories.json"), "path to the category config")
	flag.StringVar(&opts.historyPath, "history", envOr("HISTORY_FILE", "alcohol_history.json"), "path to the price history document")
	flag.StringVar(&opts.ledgerPath, "runlog", envOr("RUNLOG_DB_PATH", "runs.db"), "path to the scrape-run ledger database")
	flag.StringVar(&opts.category, "category", os.Getenv("SCRAPE_SINGLE_CATEGORY"), `restrict the run to one composite key ("Store:Name")`)
	flag.IntVar(&opts.maxPages, "max-pages", envInt("MAX_PAGES", 0), "safety cap on pages per category (0 = default)")
	flag.BoolVar(&opts.headless, "headless", envOr("HEADLESS", "true") == "true", "run the browser headless")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	sources, err := config.Load(opts.configPath)
	if err != nil {
		logger.Warnf(logger.KindConfig, "loading %s: %v, nothing to scrape", opts.configPath, err)
	}
	if len(sources) == 0 {
		log.Println("No categories configured.")
		return nil
	}
	log.Printf("Loaded %d categories from %s", len(sources), opts.configPath)

	// One run at a time; concurrent runs would race the whole-file rewrite.
	lock, err := history.AcquireLock(opts.historyPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	doc, err := history.Load(opts.historyPath)
	if err != nil {
		return err
	}
	now := time.Now().Format(time.RFC3339)
	doc.Meta.GeneratedAt = now

	ledger, err := runlog.Open(opts.ledgerPath)
	if err != nil {
		logger.Warnf(logger.KindRunLog, "open run ledger %s: %v, continuing without it", opts.ledgerPath, err)
	} else {
		defer ledger.Close()
	}

	log.Println("Starting browser...")
	sess, err := browser.NewSession(context.Background(), browser.Options{Headless: opts.headless})
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer sess.Close()

	c := crawler.New(sess, doc, ledger, crawler.Settings{
		MaxPages:       opts.maxPages,
		SingleCategory: opts.category,
	})
	c.Run(sources, now)

	if err := doc.Save(opts.historyPath); err != nil {
		return err
	}

	if n := logger.Total(); n > 0 {
		log.Printf("Scrape complete with %d warnings. History written to %s", n, opts.historyPath)
	} else {
		log.Printf("Scrape complete. History written to %s", opts.historyPath)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
