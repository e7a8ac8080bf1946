package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapdgml/internal/cli/config"
	"github.com/leapstack-labs/leapdgml/internal/cli/output"
)

const configFileName = "leapdgml.yaml"

const configHeader = `# leapdgml configuration
#
# Every key can also be set with a LEAPDGML_ environment variable
# (LEAPDGML_GRAPH_DIRECTION=TopToBottom) or a command line flag.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapdgml configuration file",
		Long: `Write a leapdgml.yaml with the default settings.

Use --example to also add a sample debug view under views/ and a
.gitignore for generated diagrams and the history database.`,
		Example: `  # Initialize in current directory
  leapdgml init

  # Initialize with a sample view
  leapdgml init --example

  # Initialize in a new directory
  leapdgml init diagrams --example

  # Force overwrite existing config
  leapdgml init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Add a sample debug view")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}
	r.StatusLine(configFileName, "success", "")

	if example {
		if err := copyTemplate("example", dir, force); err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
		files, _ := listTemplateFiles("example")
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println("")
	r.Success("leapdgml initialized!")
	r.Println("")
	r.Println("Next steps:")
	if example {
		r.Println("  leapdgml convert views/SamuraiContext.txt   Write views/SamuraiContext.dgml")
		r.Println("  leapdgml inspect views/SamuraiContext.txt   Summarize the entities")
		r.Println("  leapdgml dag views/SamuraiContext.txt       Show relationship order")
	} else {
		r.Println("  1. Save the output of DbContext.Model.ToDebugString() to Model.txt")
		r.Println("  2. Run 'leapdgml convert Model.txt'")
		r.Println("  3. Open Model.dgml in Visual Studio")
	}
	return nil
}

// defaultConfigYAML renders the default configuration with yaml.v3.
func defaultConfigYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.Default()); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
