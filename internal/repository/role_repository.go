package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobtracker/internal/model"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByName(name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query role by name failed: %w", err)
	}
	return &role, nil
}

// Seed inserts the closed role set if missing. Safe to run on every start.
func (r *RoleRepository) Seed() error {
	for _, name := range []string{model.RoleUser, model.RoleAdmin} {
		role := model.Role{Name: name}
		err := r.db.Where("name = ?", name).FirstOrCreate(&role).Error
		if err != nil {
			return fmt.Errorf("seed role %s failed: %w", name, err)
		}
	}
	return nil
}
