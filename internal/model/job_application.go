package model

import "time"

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusRejected  ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected}
}

// JobApplication is never hard-deleted; Deleted is set once by the soft
// delete operation and every repository query excludes flagged rows.
type JobApplication struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Company     string            `gorm:"size:100;not null" json:"company"`
	Role        string            `gorm:"size:100;not null" json:"role"`
	Status      ApplicationStatus `gorm:"size:16;not null;index" json:"status"`
	DateApplied time.Time         `gorm:"type:date;not null" json:"date_applied"`
	Notes       string            `gorm:"size:1000" json:"notes"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	Deleted     bool              `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
