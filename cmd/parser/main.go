package main

// @title           Rapid CRM Parser API
// @version         1.0
// @description     Credit report normalization service. Parses bureau reports into a canonical NormalizedReport, stores them and derives audits.

// @contact.name   Rapid CRM
// @contact.url    https://github.com/Fchery87/Rapid-CRM/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Static API key

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Fchery87/Rapid-CRM/docs"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(version).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
