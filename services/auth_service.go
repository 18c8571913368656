package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const SessionCookieName = "session_token"

var errInvalidCredentials = &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "Invalid email or password"}

// Mailer sends transactional email; sending is fire-and-forget.
type Mailer interface {
	SendEmail(toName, toEmail, subject, htmlContent string)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthService is the identity resolver: it owns accounts, sessions and the
// signed token stored in the session cookie.
type AuthService struct {
	db     *gorm.DB
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	mailer Mailer
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, secret string, ttl time.Duration, mailer Mailer) *AuthService {
	return &AuthService{
		db:     db,
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(secret),
		ttl:    ttl,
		mailer: mailer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("hash password: %w", err))
	}

	var out *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ? OR username = ?", in.Email, in.Username).First(&existing).Error
		if err == nil {
			fields := map[string][]string{}
			if existing.Email == in.Email {
				fields["email"] = []string{"Email already in use"}
			}
			if existing.Username == in.Username {
				fields["username"] = []string{"Username already taken"}
			}
			return apperr.Conflict(fields)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unexpected(err)
		}

		user := models.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: string(hashed),
			DisplayName:  in.Username,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(map[string][]string{"_form": {"Email or username already in use"}})
			}
			return apperr.Unexpected(err)
		}

		out, err = s.startSession(ctx, tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", out.User.ID)
	if s.mailer != nil {
		go s.mailer.SendEmail(out.User.Name(), out.User.Email, "Welcome to CodEd!",
			fmt.Sprintf("<h1>Welcome, %s!</h1><p>Thank you for registering. Your first lesson is waiting.</p>", out.User.Name()))
	}
	return out, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out *AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidCredentials
			}
			return apperr.Unexpected(err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return errInvalidCredentials
		}
		var err error
		out, err = s.startSession(ctx, tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// startSession creates the session row, signs its token and bumps the login
// streak.
func (s *AuthService) startSession(ctx context.Context, tx *gorm.DB, user *models.User) (*AuthResult, error) {
	now := s.now()
	session := models.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: now.Add(s.ttl)}
	if err := tx.Create(&session).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}

	token, err := s.IssueToken(session)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	streak := NextLoginStreak(user.LastLoginAt, user.LoginStreak, now)
	if err := tx.Model(user).Updates(map[string]interface{}{"login_streak": streak, "last_login_at": now}).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	user.LoginStreak = streak
	user.LastLoginAt = &now

	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func (s *AuthService) IssueToken(session models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":     session.ID.String(),
		"user_id": session.UserID,
		"exp":     session.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) Secret() []byte {
	return s.secret
}

// ParseToken verifies a session token and returns the session id it names.
func (s *AuthService) ParseToken(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.Unauthenticated()
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apperr.Unauthenticated()
	}
	return SessionIDFromClaims(claims)
}

func SessionIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, _ := claims["sid"].(string)
	sid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthenticated()
	}
	return sid, nil
}

// SessionUser resolves a live session to its user.
func (s *AuthService) SessionUser(ctx context.Context, sessionID uuid.UUID) (*models.User, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Preload("User").
		Where("id = ? AND expires_at > ?", sessionID, s.now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && session.User == nil) {
		return nil, apperr.Unauthenticated()
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return session.User, nil
}

// ResolveToken is ParseToken followed by SessionUser.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*models.User, uuid.UUID, error) {
	sid, err := s.ParseToken(raw)
	if err != nil {
		return nil, uuid.Nil, err
	}
	user, err := s.SessionUser(ctx, sid)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return user, sid, nil
}

// Logout deletes the session; a missing session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.Session{}).Error; err != nil {
		return apperr.Unexpected(err)
	}
	return nil
}

func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, apperr.Unexpected(res.Error)
	}
	return res.RowsAffected, nil
}

// DecayStreaks zeroes the streak of everyone whose last login is older than
// yesterday.
func (s *AuthService) DecayStreaks(ctx context.Context) (int64, error) {
	cutoff := startOfDay(s.now()).AddDate(0, 0, -1)
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("login_streak > ? AND (last_login_at IS NULL OR last_login_at < ?)", 0, cutoff).
		UpdateColumn("login_streak", 0)
	if res.Error != nil {
		return 0, apperr.Unexpected(res.Error)
	}
	return res.RowsAffected, nil
}

// NextLoginStreak: same UTC day keeps the streak, the next day extends it,
// anything else restarts at 1.
func NextLoginStreak(lastLogin *time.Time, streak int, now time.Time) int {
	if lastLogin == nil {
		return 1
	}
	days := int(startOfDay(now).Sub(startOfDay(*lastLogin)).Hours() / 24)
	switch days {
	case 0:
		if streak < 1 {
			return 1
		}
		return streak
	case 1:
		return streak + 1
	default:
		return 1
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
