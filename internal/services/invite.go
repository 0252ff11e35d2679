package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/validation"
)

// DefaultInviteTTL is how long a freshly issued invitation stays
// redeemable.
const DefaultInviteTTL = 7 * 24 * time.Hour

// InviteService issues and redeems invitation tokens and creates user
// accounts. Redemption and user creation commit in one transaction:
// both succeed or neither does.
type InviteService struct {
	db       *gorm.DB
	now      func() time.Time
	newToken func() string
}

// NewInviteService creates the service with the wall clock and a
// UUID-based token generator.
func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{
		db:       db,
		now:      time.Now,
		newToken: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// Issue creates an active invitation carrying the target role. Roles
// outside the invitable set fall back to viewer, so admin can never be
// granted through a link. Tokens are never deleted afterwards; used
// and expired ones remain as an audit trail.
func (s *InviteService) Issue(ctx context.Context, role models.Role, ttl time.Duration) (*models.InviteToken, error) {
	if !role.Invitable() {
		role = models.RoleViewer
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	invite := models.InviteToken{
		Token:     s.newToken(),
		Role:      role,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// Lookup returns the invite for a token string if it is still
// redeemable, ErrInvalidInvite otherwise. Used by the registration
// page to refuse dead links before showing the form.
func (s *InviteService) Lookup(ctx context.Context, token string) (*models.InviteToken, error) {
	var invite models.InviteToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvite
		}
		return nil, err
	}
	if !invite.Redeemable(s.now()) {
		return nil, ErrInvalidInvite
	}
	return &invite, nil
}

// Redeem consumes the token and creates the user it invited, in one
// transaction. A used or expired token fails with ErrInvalidInvite and
// consumes nothing. The first user ever registered becomes admin
// regardless of the token's role; the token is still marked used.
func (s *InviteService) Redeem(ctx context.Context, token, name, email, password string) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite models.InviteToken
		if err := tx.Where("token = ?", token).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInvite
			}
			return err
		}
		if !invite.Redeemable(s.now()) {
			return ErrInvalidInvite
		}

		u, err := createUser(tx, name, email, password, invite.Role)
		if err != nil {
			return err
		}
		user = u

		invite.Used = true
		return tx.Save(&invite).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a user without an invitation. The account gets the
// plain user role, except for the very first account, which is
// promoted to admin (bootstrap rule).
func (s *InviteService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := createUser(tx, name, email, password, models.RoleUser)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// createUser validates, hashes the password and inserts the account.
// Runs inside the caller's transaction. The bootstrap promotion to
// admin happens here so invite redemption and plain registration share
// it.
func createUser(tx *gorm.DB, name, email, password string, role models.Role) (*models.User, error) {
	email = models.NormalizeEmail(email)

	v := make(validation.Violations)
	validation.Required("name", name, v)
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	var total int64
	if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		// first user ever registered is always the admin
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
