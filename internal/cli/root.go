package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sqlseg/config"
	"sqlseg/internal/adapter/llm"
	"sqlseg/internal/port"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "sqlseg",
	Short: "Segment PL/SQL scripts into LLM-ready blocks and convert them",
	Long: `sqlseg splits procedural SQL scripts into ordered, budget-sized blocks
that stay syntactically self-contained, tags each block by its leading
construct, and can hand every block to an LLM for conversion to PySpark.

Example usage:
  sqlseg segment migration.sql          # Show the block breakdown
  sqlseg segment ./scripts --csv out.csv
  sqlseg convert migration.sql --whole  # Convert blocks plus the full script
  sqlseg runs                           # List recorded segmentation runs`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sqlseg.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// newConverter builds the configured block converter.
func newConverter(cfg *config.Config, dryRun bool) (port.Converter, error) {
	if dryRun {
		return llm.NewMockConverter(), nil
	}

	cc := cfg.Convert
	timeout := time.Duration(cc.TimeoutSeconds) * time.Second

	switch cc.Provider {
	case "openai":
		return llm.NewOpenAIConverter(llm.OpenAIOptions{
			APIKeyEnv:   cc.APIKeyEnv,
			Model:       cc.Model,
			BaseURL:     cc.BaseURL,
			Temperature: cc.Temperature,
			Timeout:     timeout,
		})
	case "azure":
		return llm.NewAzureConverter(llm.OpenAIOptions{
			APIKeyEnv:   cc.APIKeyEnv,
			BaseURL:     cc.BaseURL,
			Deployment:  cc.Deployment,
			APIVersion:  cc.APIVersion,
			Temperature: cc.Temperature,
			Timeout:     timeout,
		})
	case "gemini":
		return llm.NewGeminiConverter(llm.GeminiOptions{
			APIKeyEnv: cc.APIKeyEnv,
			Model:     cc.Model,
			BaseURL:   cc.BaseURL,
			Timeout:   timeout,
		})
	case "mock":
		return llm.NewMockConverter(), nil
	default:
		return nil, fmt.Errorf("unsupported converter provider: %s", cc.Provider)
	}
}
