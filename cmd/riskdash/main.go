package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/h0157/supply-chain-risk-dashboard/internal/config"
	"github.com/h0157/supply-chain-risk-dashboard/internal/metrics"
	"github.com/h0157/supply-chain-risk-dashboard/internal/metrics/prompush"
	"github.com/h0157/supply-chain-risk-dashboard/internal/pipeline"
	"github.com/h0157/supply-chain-risk-dashboard/internal/webui"
)

// main loads the run config, optionally initializes a metrics backend,
// executes the pipeline, and can keep serving the results over HTTP.
func main() {
	var (
		cfgPath  string
		validate bool
		serve    string
	)

	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&serve, "serve", "", "after the run, serve the summary and tables on this address (e.g. :8080)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(*cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	if cfg.Metrics.PushgatewayURL != "" {
		jobName := cfg.Metrics.Job
		if jobName == "" {
			jobName = cfg.Job
		}
		b, err := prompush.NewBackend(jobName, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: url=%v job=%v", cfg.Metrics.PushgatewayURL, jobName)
			}
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := pipeline.Run(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}

	if serve != "" {
		srv := webui.NewServer(webui.Config{
			Addr:     serve,
			TableDir: cfg.Storage.CSV.Dir,
		}, sum)
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("webui: %v", err)
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
