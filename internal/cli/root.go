// Package cli provides the command-line interface for operating Loopin
// directly against the database and model, without the HTTP server.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/loopinhq/loopin-go/internal/config"
	"github.com/loopinhq/loopin-go/internal/db"
	"github.com/loopinhq/loopin-go/internal/llm"
	"github.com/loopinhq/loopin-go/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
	logger   *slog.Logger

	// Lazy-initialized LLM model
	model *llm.Model
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "loopin",
	Short: "AI business-planning partner",
	Long: `Loopin is an AI business-planning partner: converse with a persona-driven
AI to develop a business idea, autofill a structured plan from the
conversation, and score the plan along six dimensions.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		var cleanup func() error
		logger, cleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		_ = cleanup // file closed on process exit

		ctx := context.Background()
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		return dbClient.InitSchema(ctx)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbClient != nil {
			return dbClient.Close(context.Background())
		}
		return nil
	},
}

// getModel lazily creates the LLM model for commands that need it.
func getModel() (*llm.Model, error) {
	if model != nil {
		return model, nil
	}
	m, err := llm.NewModel(cfg, nil)
	if err != nil {
		return nil, err
	}
	model = m
	return model, nil
}

func projectService() *service.ProjectService {
	return service.NewProjectService(dbClient, logger)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(autofillCmd)
	rootCmd.AddCommand(analyzeCmd)
}

