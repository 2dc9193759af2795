package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pavlenkoa/envproc/internal/processor"
	"github.com/pavlenkoa/envproc/internal/transform"
)

var (
	processOutput string
	processMask   bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Print the MCP server configuration",
	Long: `Process reads the env file, resolves every integration of the mapping
table against it and prints the resulting mcpServers configuration.

Without --mapping the built-in table is used: a single "github" server
whose GITHUB_PERSONAL_ACCESS_TOKEN comes from GITHUB_TOKEN or
GITHUB_PERSONAL_ACCESS_TOKEN.`,
	Example: `  # Print the configuration for ./.env
  envproc process

  # Read the env file from S3 and print YAML
  envproc process --env-file s3://my-bucket/app.env -o yaml

  # Use a custom mapping table with a variable
  envproc process --mapping mcp.hcl --var REGISTRY=ghcr.io

  # Mask secrets before sharing the output
  envproc process --mask`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "json", "output format: json, yaml")
	processCmd.Flags().BoolVar(&processMask, "mask", false, "mask sensitive env values in the output")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if processOutput != "json" && processOutput != "yaml" {
		return fmt.Errorf("unknown output format: %s (use 'json' or 'yaml')", processOutput)
	}

	opts, err := processorOptions(ctx)
	if err != nil {
		return err
	}

	_, cfg, err := processor.InitializeConfig(ctx, getLogger(), opts...)
	if err != nil {
		return err
	}

	if processMask {
		cfg = cfg.Masked()
	}

	out, err := render(cfg, processOutput)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// render encodes cfg in the requested format.
func render(cfg *transform.MCPConfig, format string) ([]byte, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	}
}
