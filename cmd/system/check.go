package system

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and RBAC model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration OK.")

			if _, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath); err != nil {
				return fmt.Errorf("RBAC model invalid: %w", err)
			}
			fmt.Println("RBAC model OK.")

			fmt.Printf("Supabase project: %s\n", cfg.Supabase.URL)
			fmt.Printf("Server port: %d (%s)\n", cfg.Server.Port, cfg.Server.Environment)
			return nil
		},
	}

	return cmd
}
