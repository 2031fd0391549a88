package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

var ErrApplicationNotFound = errors.New("application not found")

// Field limits are counted in runes to match the column character sizes.
const (
	maxCompanyLen = 100
	maxRoleLen    = 100
	maxNotesLen   = 1000
)

type JobApplicationService struct {
	db           *gorm.DB
	appRepo      *repository.JobApplicationRepository
	activityRepo *repository.ActivityRepository
	publisher    ActivityEventPublisher
	statsCache   StatsCache
}

type ActivityEventPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

type StatsCache interface {
	Get(ctx context.Context, userID uint) (*Statistics, bool, error)
	Set(ctx context.Context, userID uint, stats Statistics) error
	Invalidate(ctx context.Context, userID uint) error
}

type CreateApplicationInput struct {
	Company     string
	Role        string
	Status      model.ApplicationStatus
	DateApplied *time.Time
	Notes       string
}

// UpdateApplicationInput is a partial update: nil fields keep their
// previous value.
type UpdateApplicationInput struct {
	Company     *string
	Role        *string
	Status      *model.ApplicationStatus
	DateApplied *time.Time
	Notes       *string
}

type ApplicationPage struct {
	Content       []model.JobApplication
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

type Statistics struct {
	Total     int64 `json:"total"`
	Applied   int64 `json:"applied"`
	Interview int64 `json:"interview"`
	Offer     int64 `json:"offer"`
	Rejected  int64 `json:"rejected"`
}

func NewJobApplicationService(
	db *gorm.DB,
	appRepo *repository.JobApplicationRepository,
	activityRepo *repository.ActivityRepository,
	publisher ActivityEventPublisher,
	statsCache StatsCache,
) *JobApplicationService {
	return &JobApplicationService{
		db:           db,
		appRepo:      appRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		statsCache:   statsCache,
	}
}

func (s *JobApplicationService) Create(input CreateApplicationInput, userID uint) (*model.JobApplication, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	company := strings.TrimSpace(input.Company)
	role := strings.TrimSpace(input.Role)
	notes := strings.TrimSpace(input.Notes)
	if company == "" || role == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(company) > maxCompanyLen ||
		utf8.RuneCountInString(role) > maxRoleLen ||
		utf8.RuneCountInString(notes) > maxNotesLen {
		return nil, ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = model.StatusApplied
	}
	if !status.Valid() {
		return nil, ErrInvalidInput
	}

	dateApplied := today()
	if input.DateApplied != nil {
		dateApplied = *input.DateApplied
	}

	application := &model.JobApplication{
		Company:     company,
		Role:        role,
		Status:      status,
		DateApplied: dateApplied,
		Notes:       notes,
		UserID:      userID,
		Deleted:     false,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.appRepo.Create(tx, application)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(userID, application.ID, model.ActivityCreated, fmt.Sprintf("%s at %s", application.Role, application.Company))
	return application, nil
}

// Get is the single owner-scoped lookup. Absent, soft-deleted and
// foreign-owned records are indistinguishable to the caller.
func (s *JobApplicationService) Get(id, userID uint) (*model.JobApplication, error) {
	if id == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}

	application, err := s.appRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrApplicationNotFound
	}
	return application, nil
}

func (s *JobApplicationService) Update(id uint, input UpdateApplicationInput, userID uint) (*model.JobApplication, error) {
	application, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if company == "" || utf8.RuneCountInString(company) > maxCompanyLen {
			return nil, ErrInvalidInput
		}
		application.Company = company
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role == "" || utf8.RuneCountInString(role) > maxRoleLen {
			return nil, ErrInvalidInput
		}
		application.Role = role
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidInput
		}
		application.Status = *input.Status
	}
	if input.DateApplied != nil {
		application.DateApplied = *input.DateApplied
	}
	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		if utf8.RuneCountInString(notes) > maxNotesLen {
			return nil, ErrInvalidInput
		}
		application.Notes = notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.appRepo.Save(tx, application)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(userID, application.ID, model.ActivityUpdated, string(application.Status))
	return application, nil
}

// Delete soft-deletes: the flag flips once and the record drops out of
// every query. A repeat call finds nothing and returns not-found.
func (s *JobApplicationService) Delete(id, userID uint) error {
	application, err := s.Get(id, userID)
	if err != nil {
		return err
	}

	application.Deleted = true
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.appRepo.Save(tx, application)
	})
	if err != nil {
		return err
	}

	s.afterWrite(userID, application.ID, model.ActivityDeleted, fmt.Sprintf("%s at %s", application.Role, application.Company))
	return nil
}

func (s *JobApplicationService) List(userID uint, params repository.ListParams) (*ApplicationPage, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, ErrInvalidInput
	}
	if params.Page < 0 {
		params.Page = 0
	}
	if params.Size <= 0 || params.Size > 100 {
		params.Size = 10
	}

	applications, total, err := s.appRepo.List(userID, params)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(params.Size) - 1) / int64(params.Size))
	return &ApplicationPage{
		Content:       applications,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// Statistics counts the owner's non-deleted records per status. Each record
// has exactly one status, so the four counts always sum to the total.
func (s *JobApplicationService) Statistics(userID uint) (*Statistics, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	ctx := context.Background()
	if s.statsCache != nil {
		if cached, hit, err := s.statsCache.Get(ctx, userID); err == nil && hit {
			return cached, nil
		}
	}

	total, err := s.appRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{Total: total}
	for _, status := range model.AllStatuses() {
		count, err := s.appRepo.CountByUserIDAndStatus(userID, status)
		if err != nil {
			return nil, err
		}
		switch status {
		case model.StatusApplied:
			stats.Applied = count
		case model.StatusInterview:
			stats.Interview = count
		case model.StatusOffer:
			stats.Offer = count
		case model.StatusRejected:
			stats.Rejected = count
		}
	}

	if s.statsCache != nil {
		_ = s.statsCache.Set(ctx, userID, *stats)
	}
	return stats, nil
}

func (s *JobApplicationService) RecentActivity(userID uint, limit int) ([]model.ActivityEvent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.activityRepo.ListByUserID(userID, limit)
}

// today returns the current calendar date in the local zone, at midnight UTC
// so the stored date column carries no time-of-day component.
func today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// afterWrite invalidates the cached statistics and hands the audit event to
// the queue. Both are best-effort; the write itself already committed.
func (s *JobApplicationService) afterWrite(userID, applicationID uint, action, detail string) {
	ctx := context.Background()
	if s.statsCache != nil {
		_ = s.statsCache.Invalidate(ctx, userID)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, model.ActivityEvent{
			UserID:        userID,
			ApplicationID: applicationID,
			Action:        action,
			Detail:        detail,
			CreatedAt:     time.Now(),
		})
	}
}
