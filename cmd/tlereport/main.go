// Command tlereport enriches a TLE catalog once and prints it: a table with
// per-class counts, JSON, or an interactive browser.
//
// Usage:
//
//	go run ./cmd/tlereport -file internal/pipeline/testdata/catalog.tle
//	go run ./cmd/tlereport -group stations -tui
//	curl -s '...gp.php?GROUP=gps-ops&FORMAT=tle' | go run ./cmd/tlereport -file - -json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/orbit-catalog-etl/internal/adapter/celestrak"
	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
	"github.com/couchcryptid/orbit-catalog-etl/internal/pipeline"
	"github.com/couchcryptid/orbit-catalog-etl/internal/position"
	"github.com/couchcryptid/orbit-catalog-etl/internal/propagation"
	"github.com/couchcryptid/orbit-catalog-etl/internal/report"
)

const defaultBaseURL = "https://celestrak.org/NORAD/elements/gp.php"

func main() {
	file := flag.String("file", "", "TLE file to read (- for stdin)")
	group := flag.String("group", "", "CelesTrak group to fetch when -file is not set")
	baseURL := flag.String("base-url", defaultBaseURL, "CelesTrak GP endpoint")
	class := flag.String("class", "", "only show this orbit class (LEO, MEO, GEO, HEO, UNKNOWN)")
	limit := flag.Int("limit", 50, "table rows to print (0 for all)")
	asJSON := flag.Bool("json", false, "write records as JSON instead of a table")
	tui := flag.Bool("tui", false, "open the interactive browser")
	tolerance := flag.Float64("tolerance", domain.DefaultClampToleranceDays, "future epoch tolerance in days")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if err := run(options{
		file: *file, group: *group, baseURL: *baseURL, class: *class, limit: *limit,
		asJSON: *asJSON, tui: *tui, tolerance: *tolerance, logLevel: *logLevel,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "tlereport:", err)
		os.Exit(1)
	}
}

type options struct {
	file, group, baseURL, class string
	limit                       int
	asJSON, tui                 bool
	tolerance                   float64
	logLevel                    string
}

func run(opts options) error {
	if (opts.file == "") == (opts.group == "") {
		return errors.New("exactly one of -file or -group is required")
	}
	var filter domain.OrbitClass
	if opts.class != "" {
		c, ok := domain.ParseOrbitClass(opts.class)
		if !ok {
			return fmt.Errorf("unknown orbit class %q", opts.class)
		}
		filter = c
	}

	logger := sharedobs.NewLogger(opts.logLevel, "text")
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	text, err := readCatalog(ctx, opts, metrics, logger)
	if err != nil {
		return err
	}

	engine := propagation.NewEngine(logger)
	transformer := pipeline.NewTransformer(engine, runtime.NumCPU(), opts.tolerance, logger, metrics)
	records, err := transformer.Transform(ctx, text)
	if err != nil {
		return err
	}
	if filter != "" {
		records = onlyClass(records, filter)
	}

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case opts.tui:
		projector := position.NewPropagatorProjector(engine)
		_, err := tea.NewProgram(report.NewBrowser(records, projector), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	default:
		fmt.Println(report.RenderTable(records, opts.limit))
		fmt.Println()
		fmt.Println(report.RenderSummary(report.Summarize(records)))
		return nil
	}
}

func readCatalog(ctx context.Context, opts options, metrics *observability.Metrics, logger *slog.Logger) (string, error) {
	switch {
	case opts.file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("read catalog: %w", err)
		}
		return string(data), nil
	default:
		client := celestrak.NewClient(opts.baseURL, opts.group, 30*time.Second, metrics, logger)
		return client.FetchGroup(ctx, opts.group)
	}
}

func onlyClass(records []domain.ParsedElement, class domain.OrbitClass) []domain.ParsedElement {
	out := records[:0:0]
	for i := range records {
		if records[i].OrbitClass == class {
			out = append(out, records[i])
		}
	}
	return out
}
