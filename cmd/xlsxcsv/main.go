package main

import (
	"fmt"
	"os"

	"github.com/Doemsdagding/xlsx--csv/internal/app"
	"github.com/Doemsdagding/xlsx--csv/pkg/config"
	"github.com/Doemsdagding/xlsx--csv/pkg/store"
	"github.com/joho/godotenv"
)

func main() {
	// .env may carry XLSXCSV_DATA_DIR or logging toggles during development
	_ = godotenv.Load()

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	// a data_dir from the config file acts as the root unless the
	// environment already names one
	if cfg.DataDir != "" && os.Getenv(store.EnvDataDir) == "" {
		os.Setenv(store.EnvDataDir, cfg.DataDir)
	}

	r := app.New(cfg)
	r.LoadGrids()
	if err := r.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
