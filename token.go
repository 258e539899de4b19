package main

import (
	"errors"
	"fmt"
	"time"

	"beautybook/config"
	"beautybook/utils"

	"github.com/spf13/cobra"
)

// newTokenCmd issues a bearer token signed with JWT_SECRET, for local use
// against the authenticated routes.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.AppConfig.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := utils.GenerateToken(subject, role, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "customer or professional id")
	cmd.Flags().StringVar(&role, "role", "customer", "customer or professional")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
