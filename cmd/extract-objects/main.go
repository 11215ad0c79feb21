// Package main implements the extract-objects command: from a free-form
// job description to the JSON list of MOOSE objects needed to express it.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mcpmoose/internal/catalog"
	"github.com/fyrsmithlabs/mcpmoose/internal/config"
	"github.com/fyrsmithlabs/mcpmoose/internal/extractor"
	"github.com/fyrsmithlabs/mcpmoose/internal/logging"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   `extract-objects "<job description>"`,
	Short: "Pick the MOOSE objects needed for a job description",
	Long: `extract-objects asks an LLM for the smallest set of MOOSE objects
needed to satisfy a free-form job description, constrained to the object
enum in objects.json. The picked objects are printed as indented JSON.

Examples:
  extract-objects "Steady heat conduction in a 2-D plate"
  MCP_OBJECT_LIST=./my_objects.json extract-objects "transient diffusion"`,
	Args:    cobra.ExactArgs(1),
	Version: version,
	RunE:    runExtract,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	names, err := catalog.LoadObjectNames(cfg.Artifacts.ObjectList)
	if err != nil {
		return err
	}

	picker, err := extractor.NewOpenAIPicker(cfg.OpenAI, logger)
	if err != nil {
		return err
	}

	ext, err := extractor.New(picker, names, cfg.Extractor.MinKeep, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	picked, err := ext.Extract(ctx, args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(picked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal picked objects: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
