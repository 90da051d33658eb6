/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/internal/db"
	"github.com/folioworks/portfolio/internal/seed"
	"github.com/folioworks/portfolio/internal/storage"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	seedContentFile    string
	seedContentReplace bool
	seedMediaDir       string
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load site content or bootstrap accounts",
}

var seedContentCmd = &cobra.Command{
	Use:   "content",
	Short: "Seed projects, blog posts and videos",
	Long: `Seeds projects, blog posts and videos from a YAML file, or from the
built-in sample content when --file is not given. Tables that already hold
rows are left alone unless --replace is set.

	portfolio seed content --file content.yaml --replace --media-dir ./static
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		content, err := loadContent(seedContentFile)
		if err != nil {
			return err
		}

		database, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		seeder := seed.NewContentSeeder(
			store.NewProjectRepository(database),
			store.NewPostRepository(database),
			store.NewVideoRepository(database),
			database,
		)
		res, err := seeder.Seed(ctx, content, seedContentReplace)
		if err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
		log.Info().
			Int("projects", res.Projects).
			Int("posts", res.Posts).
			Int("videos", res.Videos).
			Bool("replace", seedContentReplace).
			Msg("content seeded")

		if seedMediaDir == "" {
			return nil
		}
		media, err := storage.Open(ctx, cfg.Media)
		if err != nil {
			return fmt.Errorf("open media backend: %w", err)
		}
		if media == nil {
			return errors.New("--media-dir needs MEDIA_BACKEND to be set")
		}
		n, err := seed.UploadMedia(ctx, media, seedMediaDir)
		if err != nil {
			return err
		}
		log.Info().Int("files", n).Str("bucket", media.Bucket()).Msg("media uploaded")
		return nil
	},
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create accounts from environment variables",
	Long: `Creates accounts listed in USERS_SEED_JSON (a JSON array of
{name, email, password, is_admin}) or in USER1_* / USER2_* variables
(NAME, EMAIL, PASSWORD, IS_ADMIN). Existing accounts only get their admin
flag updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		specs, err := seed.LoadUserSpecs(os.Getenv)
		if err != nil {
			return err
		}

		database, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		res, err := seed.NewUserSeeder(store.NewUserRepository(database), database).Seed(ctx, specs)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Created:", res.Created)
		fmt.Fprintln(out, "Updated/Skipped:")
		for _, u := range res.Updated {
			fmt.Fprintf(out, "  - %s: %s\n", u.Email, u.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedContentCmd)
	seedCmd.AddCommand(seedUsersCmd)

	seedContentCmd.Flags().StringVar(&seedContentFile, "file", "", "YAML content file (defaults to the built-in sample content)")
	seedContentCmd.Flags().BoolVar(&seedContentReplace, "replace", false, "replace existing projects, posts and videos")
	seedContentCmd.Flags().StringVar(&seedMediaDir, "media-dir", "", "upload every file in this directory to the media bucket")
}

func loadContent(path string) (seed.Content, error) {
	if path == "" {
		return seed.DefaultContent()
	}
	return seed.LoadContentFile(path)
}

func openStore(ctx context.Context, cfg config.Config) (*store.DB, error) {
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store.NewDB(conn), nil
}
