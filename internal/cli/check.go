package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured LLM credentials",
	Long: `Send a minimal request to the configured LLM provider to confirm the
endpoint and API key work before starting a conversion pass.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	converter, err := newConverter(cfg, false)
	if err != nil {
		return err
	}

	fmt.Printf("Checking %s (%s)...\n", cfg.Convert.Provider, converter.ModelName())

	if err := converter.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	fmt.Println("Credentials OK")
	return nil
}
