package main

import (
	"context"
	"fmt"
	"os"

	"github.com/romariotrain/printshop-workflow/internal/app"
	"github.com/romariotrain/printshop-workflow/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "workflow: config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger("workflow", cfg.LogLevel, cfg.LogFormat)
	code := app.Run(logger, func(ctx context.Context) error {
		return run(ctx, cfg, logger)
	})
	os.Exit(code)
}
