package models

import "time"

type Certificate struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_certificate_user_module" json:"user_id"`
	ModuleID       uint      `gorm:"not null;uniqueIndex:idx_certificate_user_module" json:"module_id"`
	CourseTitle    string    `gorm:"size:255;not null" json:"course_title"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificate_url"`

	User   *User           `gorm:"foreignKey:UserID" json:"-"`
	Module *LearningModule `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}
