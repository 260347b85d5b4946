package main

import (
	"context"
	"os"

	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("DADROCK_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := loadConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	config.ApplyEnv(os.Getenv)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "dadrock",
		Usage:    "Sync and serve the DadRock Tabs guitar lesson catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

// loadConfig reads path when it exists and falls back to the embedded defaults otherwise.
func loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(path)
}
