package stockwatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stockwatch/lib/scrapers/storefront"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/stockwatch")

type Config struct {
	BaseUrl          string `json:"base_url"`
	SkuFile          string `json:"sku_file"`
	OutOfStockFile   string `json:"out_of_stock_file"`
	StateFile        string `json:"state_file"`
	ChangeReportFile string `json:"change_report_file"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:          "https://example-store.com",
		SkuFile:          "SKUs.txt",
		OutOfStockFile:   "out_stock.txt",
		StateFile:        "previous_out_stock.txt",
		ChangeReportFile: "stock_change_report.txt",
		TimeoutSeconds:   15,
	}
}

// WithDefaults fills unset fields from DefaultConfig so a partial
// config file still yields a runnable configuration.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	if c.BaseUrl == "" {
		c.BaseUrl = defaults.BaseUrl
	}
	if c.SkuFile == "" {
		c.SkuFile = defaults.SkuFile
	}
	if c.OutOfStockFile == "" {
		c.OutOfStockFile = defaults.OutOfStockFile
	}
	if c.StateFile == "" {
		c.StateFile = defaults.StateFile
	}
	if c.ChangeReportFile == "" {
		c.ChangeReportFile = defaults.ChangeReportFile
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaults.TimeoutSeconds
	}
	return c
}

type Service struct {
	scraper *storefront.Client
	store   Store
	config  Config
}

func NewService(config Config) (*Service, error) {
	config = config.WithDefaults()

	scraper, err := storefront.NewClient(storefront.ClientOptions{
		BaseUrl: config.BaseUrl,
		Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create storefront client: %w", err)
	}

	return &Service{
		scraper: scraper,
		store:   Store{Path: config.StateFile},
		config:  config,
	}, nil
}

// Run executes one stock check pass: read the sku list, probe each
// sku in order, classify transitions against the previous run and
// write the two reports before atomically replacing the saved state.
// a cancelled context aborts before anything is written, leaving the
// previous state authoritative for the next invocation.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "service:Run")
	defer span.End()

	skus, err := ReadSkuFile(s.config.SkuFile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read sku list")
		return Summary{}, fmt.Errorf("read sku list: %w", err)
	}
	span.SetAttributes(attribute.Int("sku_count", len(skus)))
	slog.InfoContext(ctx, "starting stock check", "skus", len(skus))

	previous, err := s.store.Load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load previous state")
		return Summary{}, fmt.Errorf("load previous state: %w", err)
	}
	slog.InfoContext(ctx, "loaded previous out-of-stock set", "skus", len(previous))

	// skus observed out of stock this run, in input order
	var outOfStock []string
	current := map[string]struct{}{}
	failed := map[string]struct{}{}

	for _, sku := range skus {
		if ctx.Err() != nil {
			return Summary{}, ctx.Err()
		}

		obs, err := s.scraper.CheckStock(ctx, sku)
		if err != nil {
			if ctx.Err() != nil {
				return Summary{}, ctx.Err()
			}
			slog.WarnContext(ctx, "skipping sku", "sku", sku, "err", err)
			failed[sku] = struct{}{}
			continue
		}

		slog.InfoContext(
			ctx, "checked sku",
			"sku", sku,
			"out_of_stock", obs.OutOfStock,
			"url", obs.ProductUrl,
		)
		if obs.OutOfStock {
			current[sku] = struct{}{}
			outOfStock = append(outOfStock, sku)
		}
	}

	if ctx.Err() != nil {
		return Summary{}, ctx.Err()
	}

	changes := Diff(skus, failed, previous, current)

	err = WriteOutOfStockReport(s.config.OutOfStockFile, outOfStock)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write out-of-stock report")
		return Summary{}, err
	}
	err = WriteChangeReport(s.config.ChangeReportFile, changes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write change report")
		return Summary{}, err
	}

	// a failed probe never learned the sku's state, so a previously
	// out-of-stock sku stays recorded until a probe says otherwise
	var state []string
	for _, sku := range skus {
		if _, ok := current[sku]; ok {
			state = append(state, sku)
			continue
		}
		_, probeFailed := failed[sku]
		_, wasOut := previous[sku]
		if probeFailed && wasOut {
			state = append(state, sku)
		}
	}

	err = s.store.Save(state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save state")
		return Summary{}, err
	}

	summary := summarize(changes, len(skus), len(failed))
	slog.InfoContext(
		ctx, "stock check finished",
		"restocked", summary.Restocked,
		"still_out_of_stock", summary.StillOutOfStock,
		"newly_out_of_stock", summary.NewlyOutOfStock,
		"probe_errors", summary.ProbeErrors,
	)
	return summary, nil
}
