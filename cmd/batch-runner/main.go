// cmd/batch-runner/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"

	"go.uber.org/zap"

	"mortgage-workers/internal/common/config"
	"mortgage-workers/internal/common/logger"
	"mortgage-workers/internal/models"
	"mortgage-workers/internal/pipeline"
	"mortgage-workers/internal/valuation"
)

// batchSummary is printed to stdout after all applications finish.
type batchSummary struct {
	Total         int `json:"total"`
	Approved      int `json:"approved"`
	Rejected      int `json:"rejected"`
	PendingReview int `json:"pending_review"`
	WithErrors    int `json:"with_errors"`
}

func main() {
	inputPath := flag.String("input", "", "path to a JSON file containing an array of applications")
	outputPath := flag.String("output", "", "optional path to write full result records as JSON")
	concurrency := flag.Int("concurrency", 4, "number of applications processed in parallel")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if *inputPath == "" {
		zapLog.Fatal("missing required -input flag")
	}

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		zapLog.Fatal("failed to read input file", zap.Error(err))
	}

	var applications []models.Application
	if err := json.Unmarshal(data, &applications); err != nil {
		zapLog.Fatal("failed to parse input file", zap.Error(err))
	}

	var client valuation.Client
	if cfg.Valuation.Mode == "live" {
		client = valuation.NewLiveClient(cfg.Valuation, log)
	} else {
		client = valuation.NewMockClient()
	}

	p := pipeline.New(cfg, client, nil, log)

	zapLog.Info("starting batch run",
		zap.Int("applications", len(applications)),
		zap.Int("concurrency", *concurrency),
	)

	// Each goroutine owns its record; results land in a fixed slot so
	// output order matches input order.
	results := make([]*models.Application, len(applications))
	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup

	for i := range applications {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			app := applications[i]
			results[i] = p.Run(context.Background(), &app)
		}(i)
	}
	wg.Wait()

	summary := batchSummary{Total: len(results)}
	for _, r := range results {
		switch r.FinalDecision {
		case models.DecisionApproved:
			summary.Approved++
		case models.DecisionRejected:
			summary.Rejected++
		case models.DecisionPendingReview:
			summary.PendingReview++
		}
		if len(r.Errors) > 0 {
			summary.WithErrors++
		}
	}

	if *outputPath != "" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			zapLog.Fatal("failed to serialize results", zap.Error(err))
		}
		if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
			zapLog.Fatal("failed to write output file", zap.Error(err))
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		zapLog.Fatal("failed to write summary", zap.Error(err))
	}

	zapLog.Info("batch run finished",
		zap.Int("approved", summary.Approved),
		zap.Int("rejected", summary.Rejected),
		zap.Int("pendingReview", summary.PendingReview),
	)
}
