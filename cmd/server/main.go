package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/app"
	"go.uber.org/fx"
)

func main() {
	application := fx.New(
		app.Module,
		fx.StopTimeout(30*time.Second),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// Gracefully shutdown the application
	stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	if err := application.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application: %v", err)
		os.Exit(1)
	}
}
