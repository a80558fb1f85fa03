// Command createsuperuser creates an admin account directly in the database.
// The account has no confirmation code yet; signing up with the same username
// and email mails the first one, after which the normal token flow applies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"yamdb-api/internal/app"
	"yamdb-api/internal/bootstrap"
	"yamdb-api/internal/config"
	"yamdb-api/internal/model"
	"yamdb-api/internal/platform/database"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

func main() {
	username := flag.String("username", "", "account username")
	email := flag.String("email", "", "account email")
	flag.Parse()

	if err := run(context.Background(), strings.TrimSpace(*username), strings.TrimSpace(*email)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, username, email string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	logger := bootstrap.NewLogger(cfg.App.Env)

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	users := app.NewUserService(repository.NewUserRepository(db), validation.New())
	user, err := users.Create(ctx, app.CreateUserInput{
		Username: username,
		Email:    email,
		Role:     string(model.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("create superuser failed: %w", err)
	}
	if err := users.Promote(ctx, user); err != nil {
		return err
	}

	logger.Info("superuser created", "username", user.Username, "email", user.Email)
	return nil
}
