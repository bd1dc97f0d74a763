package user

import (
	"fmt"
	"time"

	userRepo "tripay/database/repository/user"
	"tripay/models"
	"tripay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 7 * 24 * time.Hour

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Fullname    string
	PhoneNumber string
	Role        models.Role
}

// AuthResponse is returned on successful authentication.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService handles account registration and authentication. The role is
// resolved here, once, and travels in the token as a claim.
type UserService interface {
	Register(in RegisterInput) (*models.User, error)
	Authenticate(email, password string) (*AuthResponse, error)
	GetByID(id string) (*models.User, error)
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates a new account with a bcrypt password hash.
func (s *DefaultUserService) Register(in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" || in.Username == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}

	existing, err := s.Repo.GetByEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Fullname:     in.Fullname,
		PhoneNumber:  in.PhoneNumber,
		Role:         in.Role,
		CreatedAt:    time.Now(),
	}
	if err := s.Repo.Create(usr); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Logger.Info("user registered", zap.String("user_id", usr.ID), zap.String("role", string(usr.Role)))
	return usr, nil
}

// Authenticate verifies credentials and issues a bearer token carrying the
// user's id, email and role.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(email)
	if err != nil {
		s.Logger.Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(userRec.ID, userRec.Email, string(userRec.Role), tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{User: userRec, Token: token}, nil
}

// GetByID fetches an account by id.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}
