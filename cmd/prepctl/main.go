// Package main is the operator CLI for the interview prep backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"interview-prep-be/internal/bootstrap"
	"interview-prep-be/internal/config"
	"interview-prep-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepctl",
	Short: "Inspect prompts and run topic operations against the configured stack",
	Long: `prepctl renders the prompts the service sends to the model and runs
single topic operations (seeding defaults, regenerating content) against the
database and model provider configured through the environment or .env.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// openContainer wires the same dependencies as the REST server.
func openContainer(ctx context.Context) (*bootstrap.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return bootstrap.NewContainer(ctx, db, cfg)
}

func parseOwner(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("owner")
	owner, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--owner must be a UUID: %w", err)
	}
	return owner, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
