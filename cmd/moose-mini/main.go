// Package main implements the moose-mini command: from a free-form job
// description to the picked object list and its mini-syntax skeleton.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mcpmoose/internal/catalog"
	"github.com/fyrsmithlabs/mcpmoose/internal/config"
	"github.com/fyrsmithlabs/mcpmoose/internal/extractor"
	"github.com/fyrsmithlabs/mcpmoose/internal/logging"
	"github.com/fyrsmithlabs/mcpmoose/internal/syntax"
)

var (
	configPath string
	version    = "dev"
)

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12"))

var rootCmd = &cobra.Command{
	Use:   `moose-mini "<job description>"`,
	Short: "Job description to object list to mini syntax",
	Long: `moose-mini runs the full pipeline: it picks the MOOSE objects needed
for a free-form job description, then assembles the prompt-ready mini
syntax from the pre-built snippet map.

Examples:
  moose-mini "Steady heat conduction in a 2-D plate"`,
	Args:    cobra.ExactArgs(1),
	Version: version,
	RunE:    runMini,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMini(cmd *cobra.Command, args []string) error {
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

	svc, err := syntax.NewService(cfg.Artifacts.SyntaxMap, logger)
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

	fmt.Println(headingStyle.Render("### Picked objects ###"))
	fmt.Println(string(out))

	rendered, err := svc.Render(picked)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(headingStyle.Render("### Mini syntax ###"))
	fmt.Println(rendered)

	return nil
}
