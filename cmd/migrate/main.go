package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/Sheetal-x-Sharma/LCC/internal/config"
	"github.com/Sheetal-x-Sharma/LCC/internal/migrations"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|status|reset]")
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(context.Background(), db, command); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
	if command != "status" {
		fmt.Printf("migrate %s: done\n", command)
	}
}
