package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/biointellect/hospital_backend/cmd/http"
	systemcmd "github.com/biointellect/hospital_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "biointellect",
	Short: "BioIntellect hospital information system backend.",
	Long: `BioIntellect is a hospital information system backend for AI-assisted
diagnostics. It manages patients, medical cases, ECG and MRI analyses,
clinical reports, and patient-facing LLM conversations on top of Supabase.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
