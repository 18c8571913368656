package models

import "time"

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusCompleted = "completed"
)

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Language    string    `gorm:"size:50;not null" json:"language"`
	Description string    `gorm:"type:text" json:"description"`
	CodeContent string    `gorm:"type:text;not null" json:"code_content"`
	Status      string    `gorm:"size:20;not null;default:'draft'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
