package main

import (
	"context"
	"flag"
	"log"
	"tubi-epg/config"
	"tubi-epg/logging"
	"tubi-epg/metrics"
	"tubi-epg/pipeline"
	"tubi-epg/proxy"
	"tubi-epg/store"
	"tubi-epg/tubi"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func main() {
	configPath := flag.String("config", "tubi.yaml", "path to YAML config (optional)")
	countries := flag.String("countries", "", "comma separated country codes; positional args are appended")
	output := flag.String("output", "", "directory for the playlist and guide files")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	metricsFile := flag.String("metrics", "", "write Prometheus textfile metrics to this path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.SetCountries(*countries, flag.Args())
	if *output != "" {
		cfg.OutputDir = *output
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *metricsFile != "" {
		cfg.MetricsFile = *metricsFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	entry := logger.WithField("run_id", uuid.NewString())
	entry.WithField("countries", cfg.Countries).Info("starting playlist and guide update")

	m := metrics.New()
	runner := &pipeline.Runner{
		Resolver: proxy.NewResolver(cfg.ProxyDirectoryURL, cfg.ProxyProtocol, cfg.RequestTimeout, cfg.SkipVerify(), entry),
		Pages: &tubi.PageClient{
			URL:        cfg.CatalogURL,
			Timeout:    cfg.RequestTimeout,
			SkipVerify: cfg.SkipVerify(),
		},
		Schedule:     tubi.NewScheduleClient(proxy.DirectClient(cfg.RequestTimeout, cfg.SkipVerify()), cfg.ScheduleURL, cfg.ScheduleRate, entry),
		Store:        store.New(afero.NewOsFs(), cfg.OutputDir),
		Metrics:      m,
		GuideBaseURL: cfg.GuideBaseURL,
		Log:          entry,
	}

	report := runner.Run(context.Background(), cfg.Countries)
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		entry.WithError(err).Warn("failed to write metrics")
	}
	entry.WithFields(logrus.Fields{
		"succeeded": report.Succeeded(),
		"failed":    len(report.Outcomes) - report.Succeeded(),
	}).Info("update finished")
}
