package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/wordlist3r/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/wordlist3r.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wordlist3r configuration file",
		Long: `Initialize creates a new .wordlist3r configuration file in the current directory.

The generated file includes:
- Default word filter and fetch settings
- Commented examples for proxy, cookies and per-host headers
- Documentation for all available options

Examples:
  # Create .wordlist3r in current directory
  wordlist3r init

  # Create the user-wide config file in the XDG config directory
  wordlist3r init --global

  # Create config file at a specific path
  wordlist3r init -o myconfig.yaml

  # Force overwrite existing file
  wordlist3r init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().BoolP("global", "g", false,
		"Write to the XDG config directory instead of --output")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	if global {
		outputPath = config.XDGConfigFile()
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/wordlist3r.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - Word length and frequency thresholds")
	fmt.Fprintln(out, "  - Concurrency, timeout and proxy")
	fmt.Fprintln(out, "  - Cookies and headers per host")

	return nil
}
