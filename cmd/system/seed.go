package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func NewSeedPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-policies",
		Short: "Load the RBAC model and seed the default role policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			enforcer, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath)
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			auth, err := authorize.NewAuthorization(enforcer)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			if err := authorize.SeedDefaultPolicies(context.Background(), auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Default RBAC policies seeded successfully.")
			return nil
		},
	}

	return cmd
}
