// Package main runs the training MCP server over stdio (for local editor use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	trainingmcp "github.com/2beens/fitcoach/internal/training/mcp"
	"github.com/2beens/fitcoach/internal/training/plans"
	"github.com/2beens/fitcoach/internal/training/sets"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the protocol, a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("location: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         os.Getenv("FITCOACH_POSTGRES_USER"),
		DBPassword:     os.Getenv("FITCOACH_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	server := trainingmcp.NewServer(plans.NewRepo(dbPool), sets.NewRepo(dbPool), loc)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
