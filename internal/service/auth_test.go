package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/repository"
	"github.com/puntoventa/pos-api/internal/repository/dao"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	return NewAuthService(repository.NewUserRepository(dao.NewUserDAO(db)))
}

func TestSignupAndLogin(t *testing.T) {
	svc := setupAuthService(t)

	created, err := svc.Signup(context.Background(), domain.User{
		Name:     "Alice",
		Username: "alice",
		Password: "Secret123",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.RoleSeller, created.Role, "role defaults to seller")
	assert.NotEqual(t, "Secret123", created.Password, "password is stored hashed")

	user, err := svc.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Signup(context.Background(), domain.User{
		Username: "alice",
		Password: "Secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignup_ExplicitAdminRole(t *testing.T) {
	svc := setupAuthService(t)

	created, err := svc.Signup(context.Background(), domain.User{
		Username: "boss",
		Password: "Secret123",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)
}
