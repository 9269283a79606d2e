package main

import (
	"fmt"
	"time"

	jwtPkg "ProjectFusion/pkg/jwt"

	cli "github.com/spf13/cobra"
)

var tokenCmd = &cli.Command{
	Use:   "token",
	Short: "Issue a bearer token for the protected endpoints",
	RunE:  IssueToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringP("subject", "s", "", "Token subject.")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime.")

	_ = tokenCmd.MarkFlagRequired("subject")
}

func IssueToken(cmd *cli.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, expiresAt, err := jwtPkg.Sign(subject, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpires_at=%s\n", token, time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}
