package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fakePosts int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo content into an empty database",
	Long: `Load the demo author, categories and posts. A database that already has
posts is left as it is.

Examples:
  blogctl seed              # demo content only
  blogctl seed --fake 50    # demo content plus 50 generated drafts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fakePosts < 0 {
			return fmt.Errorf("--fake must not be negative")
		}

		e, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		result, err := e.services.Seed.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		e.log.Info(result.Message)
		if result.Data != nil {
			e.log.Info("seeded",
				zap.Int("users", result.Data.Users),
				zap.Int("categories", result.Data.Categories),
				zap.Int("posts", result.Data.Posts),
				zap.Int("postCategories", result.Data.PostCategories),
			)
		}

		if fakePosts > 0 {
			n, err := e.services.Seed.SeedFake(cmd.Context(), fakePosts)
			if err != nil {
				return fmt.Errorf("fake seed failed after %d posts: %w", n, err)
			}
			e.log.Info("generated draft posts", zap.Int("count", n))
		}

		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&fakePosts, "fake", 0, "number of generated draft posts to add")
}
