// Package main implements the make-objects command, which regenerates the
// two artifact files that power mcpmoose from a raw MOOSE app JSON dump:
//
//   - objects.json: flat, sorted list of Block/Object names
//   - syntax_map.json: name -> mini-syntax snippet
//
// Output files are only touched when their content actually changes, so
// the command can run in CI without creating noisy diffs.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mcpmoose/internal/catalog"
)

var (
	srcPath string
	dstDir  string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "make-objects",
	Short: "Regenerate objects.json and syntax_map.json from a raw dump",
	Long: `make-objects walks a raw MOOSE app JSON dump (app-name --json) and
regenerates the object list and syntax map artifacts.

Examples:
  make-objects
  make-objects --src ~/dump.json --dst ./artifacts`,
	Version: version,
	RunE:    runMake,
}

func init() {
	rootCmd.Flags().StringVar(&srcPath, "src", "artifacts/syntax_full.json", "raw app JSON dump")
	rootCmd.Flags().StringVar(&dstDir, "dst", "artifacts", "output directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMake(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("%s not found, run 'app-name --json > %s' first: %w", srcPath, srcPath, err)
	}

	names, syntaxMap, err := catalog.Build(raw)
	if err != nil {
		return err
	}

	objectsJSON, mapJSON, err := catalog.MarshalArtifacts(names, syntaxMap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dstDir, err)
	}

	for _, out := range []struct {
		name    string
		content []byte
	}{
		{"objects.json", objectsJSON},
		{"syntax_map.json", mapJSON},
	} {
		path := filepath.Join(dstDir, out.name)
		wrote, err := catalog.WriteIfChanged(path, out.content)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Printf("wrote %s\n", path)
		}
	}

	fmt.Printf("total objects: %d | syntax snippets: %d\n", len(names), len(syntaxMap))
	return nil
}
