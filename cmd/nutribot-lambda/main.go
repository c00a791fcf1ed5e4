package main

import (
	"context"
	"log"
	"log/slog"

	"nutribot/app"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env is normal on Lambda.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	// The registry lives for the lifetime of the execution environment, so
	// warm invocations see the sessions of earlier ones.
	a, err := app.New(ctx, cfg, "lambda")
	if err != nil {
		log.Fatalf("SETUP: %s", err)
	}
	defer func() {
		if err := a.Shutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shut down cleanly", "error", err)
		}
	}()

	lambda.Start(newHandler(a.Registry))
}
