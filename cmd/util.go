package cmd

import (
	"fmt"
	"os"

	"dipbacktest/api"
	"dipbacktest/internal/app"
	"dipbacktest/internal/config"
	"dipbacktest/internal/logger"
	"dipbacktest/internal/repository"

	"github.com/joho/godotenv"
)

func InitializeDependencies() (*api.ApiHandler, *config.Config, error) {
	_ = godotenv.Load()

	configPath := "config.yaml"
	if v := os.Getenv("DIPBACKTEST_CONFIG"); v != "" {
		configPath = v
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	var priceRepository repository.PriceRepository
	switch cfg.Prices.Provider {
	case "csv":
		priceRepository = repository.NewCSVPriceRepository(cfg.Prices.CSVDir)
	default:
		priceRepository = repository.NewYahooPriceRepository()
	}

	if cfg.Prices.SQLitePath != "" {
		priceRepository, err = repository.NewPriceCacheRepository(cfg.Prices.SQLitePath, priceRepository)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open price cache: %w", err)
		}
	}

	handler := &api.ApiHandler{
		AnalysisService: app.NewAnalysisService(priceRepository),
		Logger:          logger.New(),
	}

	return handler, cfg, nil
}
