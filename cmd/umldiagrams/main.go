package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/kln-se/uml-diagrams/internal/app"
)

// @title           UML Diagrams API
// @version         1.0
// @description     Хранение UML-диаграмм и совместный доступ к ним.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
