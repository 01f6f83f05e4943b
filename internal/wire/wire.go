// Package wire provides dependency injection for the casesla application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/casesla/internal/adapters/cli"
	"github.com/example/casesla/internal/adapters/metrics"
	"github.com/example/casesla/internal/adapters/notify"
	"github.com/example/casesla/internal/adapters/sqlite"
	"github.com/example/casesla/internal/app"
	"github.com/example/casesla/internal/config"
	"github.com/example/casesla/internal/db"
	"github.com/example/casesla/internal/ports/primary"
)

var (
	cfg    = &config.Config{}
	logger = zap.NewNop()

	ruleCatalogService primary.RuleCatalogService
	caseTrackerService primary.CaseTrackerService
	recorder           *metrics.Recorder
	once               sync.Once
)

// Configure sets the configuration and logger used when services are first built.
// It must be called before any service accessor.
func Configure(c *config.Config, l *zap.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// Config returns the active configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	return logger
}

// RuleCatalogService returns the singleton RuleCatalogService instance.
func RuleCatalogService() primary.RuleCatalogService {
	once.Do(initServices)
	return ruleCatalogService
}

// CaseTrackerService returns the singleton CaseTrackerService instance.
func CaseTrackerService() primary.CaseTrackerService {
	once.Do(initServices)
	return caseTrackerService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	// Secondary ports
	caseRepo := sqlite.NewCaseRepository(database)
	ruleRepo := sqlite.NewRuleRepository(database)
	notifier := notify.NewLogNotifier(logger)
	recorder = metrics.NewRecorder()

	// Primary ports
	catalog := app.NewRuleCatalogService(ruleRepo, recorder, logger)
	ruleCatalogService = catalog
	caseTrackerService = app.NewCaseTrackerService(caseRepo, catalog, notifier,
		app.WithMetrics(recorder),
		app.WithLogger(logger),
		app.WithBulkLimit(cfg.BulkLimit),
		app.WithDefaultAnchor(primary.Anchor(cfg.DefaultAnchor)),
	)
}

// Shutdown flushes metrics to the configured textfile, closes the database
// and syncs the logger. Safe to call when no service was built.
func Shutdown() error {
	var firstErr error
	if recorder != nil && cfg.MetricsTextfile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics export failed", zap.Error(err))
			firstErr = err
		}
	}
	if err := db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	_ = logger.Sync()
	return firstErr
}

// RuleAdapter returns a new RuleAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func RuleAdapter() *cliadapter.RuleAdapter {
	return RuleAdapterWithOutput(os.Stdout)
}

// RuleAdapterWithOutput returns a new RuleAdapter writing to the given output.
func RuleAdapterWithOutput(out io.Writer) *cliadapter.RuleAdapter {
	return cliadapter.NewRuleAdapter(RuleCatalogService(), out)
}

// CaseAdapter returns a new CaseAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CaseAdapter() *cliadapter.CaseAdapter {
	return CaseAdapterWithOutput(os.Stdout)
}

// CaseAdapterWithOutput returns a new CaseAdapter writing to the given output.
func CaseAdapterWithOutput(out io.Writer) *cliadapter.CaseAdapter {
	return cliadapter.NewCaseAdapter(CaseTrackerService(), out)
}
