package services

import (
	"context"
	"errors"
	"strings"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/metrics"
	"civic-jharkhand-be/models"
	"civic-jharkhand-be/repository"
	"civic-jharkhand-be/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// AuthService owns user credentials: registration, worker creation and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *utils.TokenManager
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type CreateWorkerInput struct {
	RegisterInput
	AssignedCategory models.Category
}

// AuthResult is returned by register and login.
type AuthResult struct {
	ID               primitive.ObjectID `json:"id"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Role             models.Role        `json:"role"`
	AssignedCategory *models.Category   `json:"assignedCategory,omitempty"`
	Token            string             `json:"token"`
}

// Register creates a citizen and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(ctx, in, models.RoleCitizen, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("citizen registered", zap.String("user_id", user.ID.Hex()))
	return s.result(user)
}

// CreateWorker stores a worker bound to one category. Callers must have
// checked that the requester is an admin.
func (s *AuthService) CreateWorker(ctx context.Context, in CreateWorkerInput) (*models.User, error) {
	if !in.AssignedCategory.Valid() {
		return nil, apperrors.Validation("assignedCategory must be one of Pothole, Streetlight, Trash, Water Leakage, Other")
	}
	category := in.AssignedCategory
	user, err := s.createUser(ctx, in.RegisterInput, models.RoleWorker, &category)
	if err != nil {
		return nil, err
	}
	s.logger.Info("worker created",
		zap.String("user_id", user.ID.Hex()),
		zap.String("category", string(category)),
	)
	return user, nil
}

// CreateAdmin is only reachable from the command line.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, models.RoleAdmin, nil)
}

// Login checks credentials and issues a token. Unknown email and wrong
// password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthFailure("unknown_email")
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		metrics.AuthFailure("wrong_password")
		s.logger.Info("login failed with wrong password", zap.String("user_id", user.ID.Hex()))
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	return s.result(user)
}

func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *AuthService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) VerifyPassword(user *models.User, plaintext string) bool {
	return user.ComparePassword(plaintext)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role models.Role, category *models.Category) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := models.NormalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, apperrors.Validation("name is required")
	case email == "":
		return nil, apperrors.Validation("email is required")
	case len(in.Password) < minPasswordLength:
		return nil, apperrors.Validation("password must be at least 6 characters")
	}

	// The store's unique index is the final word; this only gives a clean
	// error before hashing.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.DuplicateEmail(email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Name:             name,
		Email:            email,
		Password:         in.Password,
		Role:             role,
		AssignedCategory: category,
	}
	if err := user.HashPassword(); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}
	return &AuthResult{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		AssignedCategory: user.AssignedCategory,
		Token:            token,
	}, nil
}
