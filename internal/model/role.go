package model

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Role is seed data, read-only at runtime.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:20;not null;uniqueIndex" json:"name"`
}
