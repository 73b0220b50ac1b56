package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenUserID int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an author token for an existing user",
	Long: `Issue a bearer token that the API accepts for mutations. Requires
JWT_SECRET_KEY to be set.

Example:
  blogctl token --user 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return errors.New("--user must be a positive user id")
		}

		e, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		token, err := e.services.Auth.IssueToken(cmd.Context(), tokenUserID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "id of the user the token is issued for")
	tokenCmd.MarkFlagRequired("user")
}
