package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new extapi project",
	Long: `Initialize a new extapi project in the current directory.

This creates:
  - extapi.yaml   - Configuration file with request defaults
  - example.api   - Example call

Examples:
  extapi init
  extapi init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "extapi.yaml")
	exampleFile := filepath.Join(cwd, "example"+call.FileExtension)

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	configContent := map[string]any{
		"timeout":               30000,
		"followRedirects":       true,
		"maxRedirects":          10,
		"validateSSL":           true,
		"oauthPlacement":        "header",
		"allowEmptyTokenSecret": false,
		"output":                "console",
		"headers": map[string]string{
			"User-Agent": "extapi/" + version,
		},
		"variables": map[string]string{
			"baseUrl": "https://httpbin.org",
		},
	}

	configYAML, err := yaml.Marshal(configContent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	example := call.NewSettings()
	example.LastApiUrl = "{{baseUrl}}/get"
	example.Parameters = call.Parameters{
		{Name: "greeting", Value: "Hello Ladies + Gentlemen"},
		{Name: "request_id", Value: "{{uuid()}}"},
	}
	if err := example.Save(exampleFile); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nextapi project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'extapi exec example.api' to send the example call.\n")

	return nil
}
