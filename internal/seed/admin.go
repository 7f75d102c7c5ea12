package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/store"
)

type Admin struct {
	Username string
	Password string
	Email    string
}

// EnsureAdmin creates the administrator account unless a user with that name
// already exists. It reports whether an account was created.
func EnsureAdmin(ctx context.Context, users *store.UserStore, authSvc *auth.Service, admin Admin, log *zap.Logger) (bool, error) {
	exists, err := users.ExistsByUsername(ctx, admin.Username)
	if err != nil {
		return false, err
	}
	if exists {
		log.Debug("admin user already present", zap.String("username", admin.Username))
		return false, nil
	}

	hash, err := authSvc.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}
	u := &domain.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: hash,
		Role:     domain.RoleAdmin,
		Enabled:  true,
	}
	if err := users.Insert(ctx, u); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	log.Info("default admin user created", zap.String("username", u.Username))
	return true, nil
}
