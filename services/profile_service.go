package services

import (
	"context"
	"errors"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
)

type Profile struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	XPPoints    int     `json:"xp_points"`
	Level       int     `json:"level"`
}

type ProfileService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger) *ProfileService {
	return &ProfileService{db: db, log: baseLog.With("service", "ProfileService")}
}

// GetProfile returns nil for anonymous callers.
func (s *ProfileService) GetProfile(ctx context.Context) (*Profile, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, nil
	}
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return toProfile(&user), nil
}

// UpdateProfile sets the display name and, when given, the avatar URL.
func (s *ProfileService) UpdateProfile(ctx context.Context, displayName string, avatarURL *string) (*Profile, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}

	updates := map[string]interface{}{"display_name": displayName}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	db := s.db.WithContext(ctx)
	res := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("user")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return toProfile(&user), nil
}

func toProfile(u *models.User) *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.Name(),
		AvatarURL:   u.AvatarURL,
		XPPoints:    u.XPPoints,
		Level:       ComputeLevel(u.XPPoints),
	}
}
