package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/service-marketplace/internal/db"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

const minPasswordLen = 6

type adminInput struct {
	Name     string
	Email    string
	Password string
}

func (in adminInput) normalize() (adminInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" {
		return in, errors.New("--name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return in, fmt.Errorf("invalid --email %q", in.Email)
	}
	if len(in.Password) < minPasswordLen {
		return in, fmt.Errorf("--password must have at least %d characters", minPasswordLen)
	}
	return in, nil
}

// createAdminCmd é a única forma de criar administradores; o signup HTTP recusa o papel.
func createAdminCmd() *cobra.Command {
	var in adminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := in.normalize()
			if err != nil {
				return err
			}

			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = dbpkg.Close(db) }()

			user, err := createAdmin(cmd.Context(), db, normalized)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %d\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "admin display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "admin login e-mail")
	cmd.Flags().StringVar(&in.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func createAdmin(ctx context.Context, db *gorm.DB, in adminInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("e-mail %s already registered", in.Email)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &user, nil
}
