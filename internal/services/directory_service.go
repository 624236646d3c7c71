// internal/services/directory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medisure/medisure-backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// DirectoryService exposes the registered supply-chain participants so a
// manufacturer can find distributors and a distributor can find pharmacies.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func (s *DirectoryService) Manufacturers() ([]models.Manufacturer, error) {
	var manufacturers []models.Manufacturer
	if err := s.db.Order("name ASC").Find(&manufacturers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch manufacturers: %w", err)
	}
	return manufacturers, nil
}

func (s *DirectoryService) Distributors() ([]models.Distributor, error) {
	var distributors []models.Distributor
	if err := s.db.Order("name ASC").Find(&distributors).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch distributors: %w", err)
	}
	return distributors, nil
}

func (s *DirectoryService) Pharmacies() ([]models.Pharmacy, error) {
	var pharmacies []models.Pharmacy
	if err := s.db.Order("name ASC").Find(&pharmacies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pharmacies: %w", err)
	}
	return pharmacies, nil
}

func (s *DirectoryService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *DirectoryService) UsersByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("role = ?", role).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}
