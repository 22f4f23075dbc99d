package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Jericoz-JC/flux-notes/internal"
	"github.com/Jericoz-JC/flux-notes/internal/export"
	"github.com/Jericoz-JC/flux-notes/internal/mcpserver"
	"github.com/Jericoz-JC/flux-notes/internal/service"
	"github.com/Jericoz-JC/flux-notes/internal/store"
	pkgconfig "github.com/Jericoz-JC/flux-notes/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if !pkgconfig.Exists(configPath) {
		// No config file is fine for local use; defaults apply.
		return cfg, "", nil
	}
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, configPath, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if configPath != "" {
		opts = append(opts, internal.WithConfigPath(configPath))
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := mcpserver.New(service.New(db, nil))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	dir := cmd.String("dir")
	n, err := export.Notes(db, dir)
	if err != nil {
		return fmt.Errorf("export error: %w", err)
	}
	fmt.Fprintf(os.Stdout, "exported %d notes to %s\n", n, dir)
	return nil
}

func runReindex(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if err := db.RebuildSearchIndex(); err != nil {
		return fmt.Errorf("reindex error: %w", err)
	}
	fmt.Fprintln(os.Stdout, "search index rebuilt")
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "flux",
		Usage:  "Local-first notes and tasks with full-text search, linking, and focus tracking",
		Action: runServe,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: runServe,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Start the MCP server on stdin/stdout",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "export",
				Usage:  "Export all notes as Markdown files",
				Action: runExport,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Destination directory",
						Value: "./export",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the full-text search index from stored rows",
				Action: runReindex,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
