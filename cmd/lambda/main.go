package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/gabu/internal/config"
	"github.com/dmorgan81/gabu/internal/handler"
	"github.com/dmorgan81/gabu/internal/inject"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/samber/do"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.New(os.Stderr, slog.LevelInfo).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := log.NewContext(context.Background(), log.New(os.Stderr, cfg.LogLevel))
	injector := inject.Setup(ctx, cfg)
	handler, err := do.Invoke[*handler.Handler](injector)
	if err != nil {
		log.FromContextOrDiscard(ctx).Error("cannot build handler", "error", err)
		os.Exit(1)
	}
	lambda.StartWithOptions(handler.HandleLambda, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
		_ = injector.Shutdown()
	}))
}
