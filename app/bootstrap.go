package app

import (
	"context"

	"community_exchange/apperr"
	"community_exchange/db"
	"community_exchange/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstStaff creates the initial STAFF account from env config so a
// fresh deployment has someone who can curate listings. No-op when the
// username is unset or already taken.
func BootstrapFirstStaff(ctx context.Context, cfg Config, repo *db.Repo, log *logrus.Logger) {
	if cfg.BootstrapStaff == "" {
		return
	}
	if _, err := repo.FindUserByUsername(ctx, cfg.BootstrapStaff); err == nil {
		return
	}

	password := getEnv("BOOTSTRAP_STAFF_PASSWORD", "")
	if password == "" {
		log.Warn("BOOTSTRAP_STAFF_USERNAME set but BOOTSTRAP_STAFF_PASSWORD empty, skipping")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("bootstrap staff: hash password")
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapStaff,
		Email:        getEnv("BOOTSTRAP_STAFF_EMAIL", cfg.BootstrapStaff+"@localhost"),
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		if !apperr.IsKind(err, apperr.KindConflict) {
			log.WithError(err).Error("bootstrap staff: create user")
		}
		return
	}
	log.WithField("username", u.Username).Info("bootstrapped first staff account")
}
