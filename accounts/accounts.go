package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calckorgo82/stockwebapp/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 5

var (
	ErrMissingField       = errors.New("missing field")
	ErrWeakPassword       = errors.New("weak password")
	ErrDuplicateUsername  = errors.New("username is taken")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Store manages the users table.
type Store struct {
	db           *gorm.DB
	startingCash decimal.Decimal
	cost         int

	// compared against when the username is unknown so both failure paths
	// spend the same bcrypt time.
	dummyHash []byte
}

// NewStore returns a Store crediting new accounts with startingCash.
func NewStore(db *gorm.DB, startingCash decimal.Decimal) *Store {
	return NewStoreWithCost(db, startingCash, bcrypt.DefaultCost)
}

// NewStoreWithCost is NewStore with an explicit bcrypt cost.
func NewStoreWithCost(db *gorm.DB, startingCash decimal.Decimal, cost int) *Store {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not a real password"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt cost %d: %v", cost, err))
	}
	return &Store{db: db, startingCash: startingCash, cost: cost, dummyHash: dummy}
}

// Register creates a user and returns its id.
func (s *Store) Register(ctx context.Context, username, password, confirmation string) (uint, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return 0, fmt.Errorf("%w: must provide username", ErrMissingField)
	case password == "":
		return 0, fmt.Errorf("%w: must provide password", ErrMissingField)
	case password != confirmation:
		return 0, fmt.Errorf("%w: passwords do not match", ErrWeakPassword)
	case len(password) < MinPasswordLength:
		return 0, fmt.Errorf("%w: password needs to be at least %d characters", ErrWeakPassword, MinPasswordLength)
	}

	db := s.db.WithContext(ctx)
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return 0, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Hash:     string(hash),
		Cash:     s.startingCash,
	}
	if err := db.Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

// Authenticate returns the id of the user matching the credentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (uint, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("lookup username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}

// User loads a user by id.
func (s *Store) User(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
