package app

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.JobApplication{},
		&model.ActivityEvent{},
	))
	require.NoError(t, repository.NewRoleRepository(db).Seed())

	return db
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		db,
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		"test-secret",
		time.Hour,
	)
}

func newApplicationService(db *gorm.DB) *JobApplicationService {
	return NewJobApplicationService(
		db,
		repository.NewJobApplicationRepository(db),
		repository.NewActivityRepository(db),
		nil,
		nil,
	)
}

func registerTestUser(t *testing.T, svc *AuthService, username, email string) uint {
	t.Helper()

	_, err := svc.Register(RegisterInput{Username: username, Email: email, Password: "secret1"})
	require.NoError(t, err)

	result, err := svc.Login(LoginInput{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return result.User.ID
}
