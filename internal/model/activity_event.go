package model

import "time"

const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
	ActivityDeleted = "deleted"
)

// ActivityEvent is an audit row persisted asynchronously by the activity
// worker after each write to a job application.
type ActivityEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Action        string    `gorm:"size:16;not null" json:"action"`
	Detail        string    `gorm:"size:255" json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
