// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/config"
	"github.com/medisure/medisure-backend/internal/database"
	"github.com/medisure/medisure-backend/internal/models"
	"github.com/medisure/medisure-backend/internal/utils"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type SignupRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Password      string `json:"password" validate:"required,min=8"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Role          string `json:"role" validate:"required,role"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Name          string `json:"name,omitempty"`
}

type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	EntityID string `json:"entity_id,omitempty"`
	Name     string `json:"name"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Signup creates the user plus the supply-chain entity its role implies.
// Manufacturers, distributors, and pharmacies each get a directory record
// holding their wallet address; patients get none.
func (s *AuthService) Signup(req *SignupRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	name := req.Name
	if name == "" {
		name = req.Username
	}
	walletAddress := req.WalletAddress
	if walletAddress == "" {
		walletAddress = "wallet_" + req.Username
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		Role:          models.UserRole(req.Role),
		WalletAddress: walletAddress,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		switch user.Role {
		case models.UserRoleManufacturer:
			entity := models.Manufacturer{Name: name, WalletAddress: walletAddress}
			if err := tx.Create(&entity).Error; err != nil {
				return fmt.Errorf("failed to create manufacturer: %w", err)
			}
			user.EntityID = &entity.ID
		case models.UserRoleDistributor:
			entity := models.Distributor{Name: name, WalletAddress: walletAddress}
			if err := tx.Create(&entity).Error; err != nil {
				return fmt.Errorf("failed to create distributor: %w", err)
			}
			user.EntityID = &entity.ID
		case models.UserRolePharmacy:
			entity := models.Pharmacy{Name: name, WalletAddress: walletAddress}
			if err := tx.Create(&entity).Error; err != nil {
				return fmt.Errorf("failed to create pharmacy: %w", err)
			}
			user.EntityID = &entity.ID
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user, name)
}

func (s *AuthService) Signin(req *SigninRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	s.db.Model(&user).UpdateColumn("last_login_at", &now)

	return s.buildAuthResponse(&user, s.entityName(&user))
}

// entityName resolves the display name for the user's directory record,
// falling back to the username.
func (s *AuthService) entityName(user *models.User) string {
	if user.EntityID == nil {
		return user.Username
	}

	switch user.Role {
	case models.UserRoleManufacturer:
		var entity models.Manufacturer
		if err := s.db.First(&entity, "id = ?", *user.EntityID).Error; err == nil {
			return entity.Name
		}
	case models.UserRoleDistributor:
		var entity models.Distributor
		if err := s.db.First(&entity, "id = ?", *user.EntityID).Error; err == nil {
			return entity.Name
		}
	case models.UserRolePharmacy:
		var entity models.Pharmacy
		if err := s.db.First(&entity, "id = ?", *user.EntityID).Error; err == nil {
			return entity.Name
		}
	}
	return user.Username
}

func (s *AuthService) buildAuthResponse(user *models.User, name string) (*AuthResponse, error) {
	entityID := ""
	if user.EntityID != nil {
		entityID = user.EntityID.String()
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), entityID, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		EntityID: entityID,
		Name:     name,
	}, nil
}
