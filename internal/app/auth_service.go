package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobtracker/internal/model"
	"jobtracker/internal/pkg/jwtutil"
	"jobtracker/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username is already taken")
	ErrEmailExists       = errors.New("email is already in use")
	ErrDuplicateUser     = errors.New("username or email is already in use")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrRoleNotConfigured = errors.New("default role is not configured")
)

type AuthService struct {
	db            *gorm.DB
	userRepo      *repository.UserRepository
	roleRepo      *repository.RoleRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	roleRepo *repository.RoleRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
) *AuthService {
	return &AuthService{
		db:            db,
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a user with the default USER role and returns a success
// message. Username and email uniqueness is pre-checked, but the store's
// unique indexes are the real enforcement boundary: a duplicate-key error
// from the insert (lost race) is translated back to the matching error.
func (s *AuthService) Register(input RegisterInput) (string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || password == "" {
		return "", ErrInvalidInput
	}

	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameExists
	}

	inUse, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return "", err
	}
	if inUse {
		return "", ErrEmailExists
	}

	defaultRole, err := s.roleRepo.GetByName(model.RoleUser)
	if err != nil {
		return "", err
	}
	if defaultRole == nil {
		return "", ErrRoleNotConfigured
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []model.Role{*defaultRole},
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.userRepo.Create(tx, user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", s.classifyDuplicate(username)
		}
		return "", err
	}

	return "User registered successfully!", nil
}

// Login verifies credentials and issues a token. A missing user and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username, user.Email, user.RoleNames())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) UsernameAvailable(username string) (bool, error) {
	taken, err := s.userRepo.ExistsByUsername(strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *AuthService) EmailAvailable(email string) (bool, error) {
	inUse, err := s.userRepo.ExistsByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return false, err
	}
	return !inUse, nil
}

// classifyDuplicate turns a duplicate-key insert into the field-specific
// error. When the recheck itself fails, neither field can be blamed.
func (s *AuthService) classifyDuplicate(username string) error {
	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return ErrDuplicateUser
	}
	if taken {
		return ErrUsernameExists
	}
	return ErrEmailExists
}
