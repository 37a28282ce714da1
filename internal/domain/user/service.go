// internal/domain/user/service.go
package user

import (
	"errors"

	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"github.com/your-org/retail-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// LoginRequest represents user login data
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CreateUserRequest represents user creation data
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      Role   `json:"role" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// UpdateUserRequest represents partial user update data
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *Role   `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  *bool   `json:"is_active"`
}

// Login authenticates a user by username and password
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	if err := s.db.Where("username = ?", req.Username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid username or password")
		}
		return nil, apperrors.Internal(err, "failed to look up user")
	}

	if !u.IsActive {
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}

	return s.buildAuthResponse(&u)
}

// RefreshToken issues a new token pair from a valid refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	var u User
	if err := s.db.Where("id = ?", claims.UserID).First(&u).Error; err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	if !u.IsActive {
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	return s.buildAuthResponse(&u)
}

func (s *Service) buildAuthResponse(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to generate access token")
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to generate refresh token")
	}

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// CreateUser creates a new user with a hashed password
func (s *Service) CreateUser(req *CreateUserRequest) (*User, error) {
	if !req.Role.IsValid() {
		return nil, apperrors.Validation("invalid role: %s", req.Role)
	}

	var existing User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("username '%s' is already taken", req.Username)
	}
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("email '%s' is already registered", req.Email)
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Validation("failed to hash password: %v", err)
	}

	u := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}

	if err := s.db.Create(u).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create user")
	}

	return u, nil
}

// GetUsers retrieves all users
func (s *Service) GetUsers() ([]User, error) {
	var users []User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve users")
	}
	return users, nil
}

// GetUserByID retrieves a user by id
func (s *Service) GetUserByID(id uint) (*User, error) {
	var u User
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve user")
	}
	return &u, nil
}

// UpdateUser applies a partial update to a user
func (s *Service) UpdateUser(id uint, req *UpdateUserRequest) (*User, error) {
	u, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, apperrors.Validation("invalid role: %s", *req.Role)
		}
		updates["role"] = *req.Role
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return u, nil
	}

	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update user")
	}

	return s.GetUserByID(u.ID)
}

// DeactivateUser sets a user inactive. Deactivating a missing user is
// reported through the success flag rather than an error.
func (s *Service) DeactivateUser(id uint) (bool, error) {
	result := s.db.Model(&User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return false, apperrors.Internal(result.Error, "failed to deactivate user")
	}
	return result.RowsAffected > 0, nil
}
