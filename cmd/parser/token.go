package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Fchery87/Rapid-CRM/internal/adapters/driven/auth"
	"github.com/Fchery87/Rapid-CRM/internal/config"
	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		scopes  []string
	)
	cmd := &cobra.Command{
		Use:     "token",
		GroupID: "local",
		Short:   "Issue a service token signed with JWT_SECRET",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.JWTSecret == "" {
				return fmt.Errorf("%s is not set", config.KeyJWTSecret)
			}
			if strings.TrimSpace(subject) == "" {
				return fmt.Errorf("--subject is required")
			}
			if !cmd.Flags().Changed("ttl") && opts.cfg.TokenTTL > 0 {
				ttl = opts.cfg.TokenTTL
			}

			adapter := auth.NewAdapter(auth.Config{JWTSecret: opts.cfg.JWTSecret})
			token, err := adapter.GenerateToken(domain.NewTokenClaims(subject, scopes, ttl))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the calling service")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime (default TOKEN_TTL_SEC)")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{domain.ScopeParse, domain.ScopeRead}, "granted scopes")
	return cmd
}

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "hash-key KEY",
		GroupID: "local",
		Short:   "Print the bcrypt hash of an API key for API_KEY_HASH",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.NewAdapter(auth.Config{}).HashAPIKey(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
