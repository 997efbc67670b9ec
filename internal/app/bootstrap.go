package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cutover/internal/config"
	"cutover/internal/events"
	"cutover/internal/operation"
	"cutover/internal/orchestrator"
	"cutover/internal/services"
	"cutover/pkg/logging"
)

// Application bundles the wired components of one CLI invocation. It follows
// a two-phase pattern: NewApplication bootstraps logging, configuration and
// the component graph; the commands then drive the orchestrator or monitor
// directly.
type Application struct {
	Config       *config.CutoverConfig
	Store        *operation.Store
	Monitor      *operation.Monitor
	Controller   *services.Controller
	Events       *events.Generator
	Orchestrator *orchestrator.Orchestrator
}

// NewApplication bootstraps the application: logging first, then
// configuration, audit store and the orchestration components.
func NewApplication(cfg *Config) (*Application, error) {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	var output io.Writer = os.Stderr
	if cfg.Silent {
		output = io.Discard
	}
	logging.Init(level, output, cfg.JSONLog)

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	cutoverCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to load configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	storePath := cutoverCfg.StorePath
	if storePath == "" {
		storePath = filepath.Join(configPath, "audit.db")
	}
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit store directory: %w", err)
	}
	store, err := operation.NewStore(storePath)
	if err != nil {
		logging.Error("Bootstrap", err, "failed to open audit store at %s", storePath)
		return nil, fmt.Errorf("failed to open audit store at %s: %w", storePath, err)
	}

	monitor := operation.NewMonitor(store)
	controller := services.NewController(services.NewExecutorFactory())
	generator := events.NewGenerator()

	orch := orchestrator.New(orchestrator.Deps{
		Config:     &cutoverCfg,
		Controller: controller,
		Monitor:    monitor,
		Events:     generator,
	})

	logging.Debug("Bootstrap", "application wired (store: %s, environments: %d)",
		storePath, len(cutoverCfg.Environments))

	return &Application{
		Config:       &cutoverCfg,
		Store:        store,
		Monitor:      monitor,
		Controller:   controller,
		Events:       generator,
		Orchestrator: orch,
	}, nil
}

// Close releases the application's resources.
func (a *Application) Close() error {
	a.Events.Close()
	return a.Store.Close()
}
