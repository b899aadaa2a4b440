package service

import (
	"context"
	"testing"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/careops/platform/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *MockUserRepository) {
	users := &MockUserRepository{}
	jwtManager := security.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(users, jwtManager), users
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, users := newAuthFixture()

	users.On("EmailExists", mock.Anything, "sam@shine.example").Return(true, nil)

	_, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "sam@shine.example",
		Name:     "Sam",
		Password: "correct-horse",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, users := newAuthFixture()

	users.On("EmailExists", mock.Anything, "sam@shine.example").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.PasswordHash != "correct-horse" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")) == nil
	})).Return(nil)

	user, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "sam@shine.example",
		Name:     "Sam",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Name)
	users.AssertExpectations(t)
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	svc, users := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &domain.User{Email: "sam@shine.example", PasswordHash: string(hash)}
	users.On("GetByEmail", mock.Anything, "sam@shine.example").Return(user, nil)

	_, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "sam@shine.example",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownEmailRejected(t *testing.T) {
	svc, users := newAuthFixture()

	users.On("GetByEmail", mock.Anything, "ghost@shine.example").Return(nil, nil)

	_, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "ghost@shine.example",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_ReturnsWorkingTokenPair(t *testing.T) {
	svc, users := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &domain.User{Email: "sam@shine.example", PasswordHash: string(hash)}
	users.On("GetByEmail", mock.Anything, "sam@shine.example").Return(user, nil)

	pair, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "sam@shine.example",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Positive(t, pair.ExpiresIn)
}
