package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jobtracker/internal/model"
)

// ListParams carries the query shape for owner-scoped listing. Page is
// zero-based; SortBy accepts the JSON field names the API exposes.
type ListParams struct {
	Status    model.ApplicationStatus
	Keyword   string
	Page      int
	Size      int
	SortBy    string
	Direction string
}

// sortColumns maps API field names to columns. Caller input never reaches
// the SQL text: unknown names fall back to the default sort.
var sortColumns = map[string]string{
	"id":          "id",
	"company":     "company",
	"role":        "role",
	"status":      "status",
	"dateApplied": "date_applied",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type JobApplicationRepository struct {
	db *gorm.DB
}

func NewJobApplicationRepository(db *gorm.DB) *JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

// scoped is the base query every read, write and count goes through:
// owner-filtered and excluding soft-deleted rows.
func (r *JobApplicationRepository) scoped(tx *gorm.DB, userID uint) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.JobApplication{}).Where("user_id = ? AND deleted = ?", userID, false)
}

func (r *JobApplicationRepository) Create(tx *gorm.DB, application *model.JobApplication) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(application).Error; err != nil {
		return fmt.Errorf("create application failed: %w", err)
	}
	return nil
}

func (r *JobApplicationRepository) GetByIDAndUserID(id, userID uint) (*model.JobApplication, error) {
	var application model.JobApplication
	if err := r.scoped(nil, userID).Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application failed: %w", err)
	}
	return &application, nil
}

func (r *JobApplicationRepository) Save(tx *gorm.DB, application *model.JobApplication) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Save(application).Error; err != nil {
		return fmt.Errorf("save application failed: %w", err)
	}
	return nil
}

// List returns one page of the owner's applications plus the total count
// for the same filter, so handlers can build pagination metadata.
func (r *JobApplicationRepository) List(userID uint, params ListParams) ([]model.JobApplication, int64, error) {
	query := r.scoped(nil, userID)

	// keyword search takes precedence over the status filter
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(company) LIKE ? OR LOWER(role) LIKE ?", pattern, pattern)
	} else if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications failed: %w", err)
	}

	var applications []model.JobApplication
	err := query.
		Order(orderClause(params.SortBy, params.Direction)).
		Offset(params.Page * params.Size).
		Limit(params.Size).
		Find(&applications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list applications failed: %w", err)
	}
	return applications, total, nil
}

func (r *JobApplicationRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	if err := r.scoped(nil, userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count applications failed: %w", err)
	}
	return count, nil
}

func (r *JobApplicationRepository) CountByUserIDAndStatus(userID uint, status model.ApplicationStatus) (int64, error) {
	var count int64
	if err := r.scoped(nil, userID).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count applications by status failed: %w", err)
	}
	return count, nil
}

func orderClause(sortBy, direction string) string {
	column, ok := sortColumns[sortBy]
	if !ok || column == "" {
		column = "date_applied"
	}
	dir := "DESC"
	if strings.EqualFold(direction, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}
