// Command admin is the cache-management CLI described in the spec's
// external interfaces: stats/clear/force/complete-stats/nuclear/help,
// calling straight into cache.Layer's admin methods, grounded on the
// teacher's own standalone-binary idiom (cmd/generate-recommendations)
// of wiring collaborators directly rather than through app.Setup's
// full HTTP stack.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/app"
	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	ctx = domain.ContextWithLogger(ctx, logger)

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	if err := run(ctx, os.Args[1]); err != nil {
		logger.ErrorContext(ctx, "admin command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, subcommand string) error {
	switch subcommand {
	case "help":
		printHelp()
		return nil
	case "stats", "complete-stats":
		return runStats(ctx, subcommand == "complete-stats")
	case "clear":
		return runClear(ctx, true)
	case "force":
		return runClear(ctx, false)
	case "nuclear":
		return runNuclear(ctx)
	default:
		printHelp()
		return fmt.Errorf("unknown subcommand [%s]", subcommand)
	}
}

func printHelp() {
	fmt.Println(`newsline-core admin CLI

Usage: admin <subcommand>

Subcommands:
  stats            print per-namespace hit/miss/total cache counters as JSON
  complete-stats   print the same counters as indented JSON
  clear            clear all cache entries except user records (prompts y/N)
  force            clear all cache entries except user records, no prompt
  nuclear          delete the entire backing store (requires typing NUCLEAR)
  help             show this message`)
}

func setupCacheLayer(ctx context.Context) (*cache.Layer, error) {
	dir := app.GetEnvAsStringOr("BADGER_DIR", "")
	var kv *store.Store
	var err error
	if dir == "" {
		kv, err = store.OpenInMemory()
	} else {
		kv, err = store.Open(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("opening backing store: %w", err)
	}
	return cache.NewLayer(kv), nil
}

func runStats(ctx context.Context, complete bool) error {
	layer, err := setupCacheLayer(ctx)
	if err != nil {
		return err
	}

	namespaces := []string{"similar", "personalized", "personalized_search"}
	stats := make(map[string]map[string]int64, len(namespaces))
	for _, ns := range namespaces {
		hits, misses, total, statErr := layer.Stats(ctx, ns, "")
		if statErr != nil {
			return fmt.Errorf("reading stats for %s: %w", ns, statErr)
		}
		stats[ns] = map[string]int64{"hits": hits, "misses": misses, "total": total}
	}

	encoder := json.NewEncoder(os.Stdout)
	if complete {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(stats)
}

func runClear(ctx context.Context, interactive bool) error {
	if interactive {
		fmt.Print("Clear all cache entries except user records? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	layer, err := setupCacheLayer(ctx)
	if err != nil {
		return err
	}

	report, err := layer.ClearAllExceptUser(ctx)
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	return writeMetricsReport(report)
}

func runNuclear(ctx context.Context) error {
	fmt.Print("This deletes the ENTIRE backing store, including user preferences and read history.\nType NUCLEAR to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	token := strings.TrimSpace(answer)

	layer, err := setupCacheLayer(ctx)
	if err != nil {
		return err
	}

	report, err := layer.NuclearClear(ctx, token)
	if err != nil {
		return fmt.Errorf("nuclear clear: %w", err)
	}

	return writeMetricsReport(report)
}

type patternMetric struct {
	KeysCleared int    `json:"keysCleared"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
	TimeMs      int64  `json:"timeMs"`
}

type metricsReport struct {
	Patterns    []patternMetric `json:"patterns"`
	Performance struct {
		TotalKeysCleared int   `json:"totalKeysCleared"`
		ElapsedMs        int64 `json:"elapsedMs"`
	} `json:"performance"`
	Errors []string `json:"errors,omitempty"`
}

func writeMetricsReport(report cache.ClearReport) error {
	out := metricsReport{Errors: report.Errors}
	for pattern, count := range report.KeysClearedByPattern {
		out.Patterns = append(out.Patterns, patternMetric{
			KeysCleared: count,
			Description: "keys cleared under " + pattern,
			Pattern:     pattern,
			TimeMs:      report.ElapsedMsByPattern[pattern],
		})
		out.Performance.TotalKeysCleared += count
	}
	out.Performance.ElapsedMs = report.ElapsedMs

	filename := fmt.Sprintf("cache_clear_metrics_%d.json", time.Now().UnixMilli())
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating metrics report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("writing metrics report: %w", err)
	}

	fmt.Printf("wrote %s (%d keys cleared in %dms)\n", filename, out.Performance.TotalKeysCleared, out.Performance.ElapsedMs)
	return nil
}
