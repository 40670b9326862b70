// Admin tool: schema migration and content management from the shell.
//
//	admin migrate
//	admin creategroup -slug cats -title "Cats" -description "All about cats"
//	admin createuser -username leo -password secret123 [-email leo@example.com]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/logger"
	"yatube/internal/services"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate       create or update the database schema
  creategroup   add a post group
  createuser    add a user account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.Init(cfg.LogLevel, true); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logger")
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "migrate":
		err = withDB(ctx, cfg, func(d *db.DB) error { return nil })
	case "creategroup":
		err = createGroup(ctx, cfg, args)
	case "createuser":
		err = createUser(ctx, cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}

// withDB opens and migrates the configured database, then runs fn.
func withDB(ctx context.Context, cfg *config.Config, fn func(d *db.DB) error) error {
	d, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := db.Migrate(ctx, d); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Schema is up to date")
	return fn(d)
}

func createGroup(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("creategroup", flag.ExitOnError)
	var slug, title, description string
	fs.StringVar(&slug, "slug", "", "unique URL identifier: letters, digits, _ or -")
	fs.StringVar(&title, "title", "", "display title")
	fs.StringVar(&description, "description", "", "group description")
	_ = fs.Parse(args)
	if slug == "" || title == "" {
		return fmt.Errorf("-slug and -title are required")
	}

	return withDB(ctx, cfg, func(d *db.DB) error {
		g, err := services.NewGroupService(d).Create(ctx, slug, title, description)
		if err != nil {
			return err
		}
		log.Info().Int64("id", g.ID).Str("slug", g.Slug).Msg("Group created")
		return nil
	})
}

func createUser(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("createuser", flag.ExitOnError)
	var username, email, password string
	fs.StringVar(&username, "username", "", "login name")
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&password, "password", "", "plain-text password")
	_ = fs.Parse(args)
	if username == "" || password == "" {
		return fmt.Errorf("-username and -password are required")
	}

	return withDB(ctx, cfg, func(d *db.DB) error {
		u, err := services.NewUserService(d).Create(ctx, username, email, password)
		if err != nil {
			return err
		}
		log.Info().Int64("id", u.ID).Str("username", u.Username).Msg("User created")
		return nil
	})
}
