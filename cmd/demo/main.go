package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/lectio/aula/internal/demo"
	"github.com/lectio/aula/pkg/logger"
)

// Default configuration constants.
const (
	defaultPresenters  = 8
	defaultEvaluators  = 4
	defaultDemoTimeout = time.Minute
)

func main() {
	var (
		presenters = flag.Int("presenters", defaultPresenters, "Number of presenters to seed")
		evaluators = flag.Int("evaluators", defaultEvaluators, "Number of evaluators to seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultDemoTimeout)
	defer cancel()

	cfg := &demo.Config{
		Presenters: *presenters,
		Evaluators: *evaluators,
	}
	if err := demo.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "demo failed", logger.Error(err))
		os.Exit(1)
	}
}
