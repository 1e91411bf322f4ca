// Package accounts registers users and checks phone + PIN logins.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone number or PIN")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidRole        = errors.New("role must be passenger, mate, driver or owner")
	ErrInvalidPhone       = errors.New("phone number must have at least 10 digits")
	ErrInvalidPIN         = errors.New("PIN must be 4 to 6 digits")
	ErrNameRequired       = errors.New("name is required")
	ErrUserNotFound       = errors.New("user not found")
)

var (
	pinPattern   = regexp.MustCompile(`^\d{4,6}$`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
}

type Options struct {
	// StartingBalance is credited to new passengers.
	StartingBalance types.Money
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

type Service struct {
	users Users
	opts  Options
}

func NewService(users Users, opts Options) *Service {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Service{users: users, opts: opts}
}

type Registration struct {
	Name  string
	Phone string
	PIN   string
	Role  string
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

func HashPIN(pin string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) Register(ctx context.Context, in Registration) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	phone := NormalizePhone(in.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	if !pinPattern.MatchString(in.PIN) {
		return nil, ErrInvalidPIN
	}
	role, ok := models.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if !ok {
		return nil, ErrInvalidRole
	}

	hash, err := HashPIN(in.PIN, s.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash PIN: %w", err)
	}
	u := &models.User{Name: name, Phone: phone, PinHash: hash, Role: role}
	if role == models.RolePassenger {
		u.Balance = s.opts.StartingBalance
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("User registered")
	return u, nil
}

// Login returns the same error for an unknown phone and a wrong PIN.
func (s *Service) Login(ctx context.Context, phone, pin string) (*models.User, error) {
	u, err := s.users.GetUserByPhone(ctx, NormalizePhone(phone))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)); err != nil {
		logrus.WithField("user_id", u.ID).Warn("Login rejected: wrong PIN")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
