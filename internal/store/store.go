package store

import (
	"context"
	"sync"

	"verdra-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Users start with 1000 units of spendable funds at registration
// (Express schema default: balance numeric default "1000").
var seedBalance = decimal.NewFromInt(1000)

// idCounter hands out identifiers from a single monotonically increasing
// sequence shared by users and credits, mirroring the Express MemStorage
// currentId. Seeded projects keep their fixed ids outside the sequence.
type idCounter struct {
	mu   sync.Mutex
	next int
}

func (c *idCounter) take() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

// Store holds users, projects and credit records. It is constructed
// explicitly at startup and injected into services and handlers; there is no
// package-level singleton.
type Store struct {
	db  *gorm.DB
	ids *idCounter
}

// New builds a Store over an already-migrated DB. The id sequence resumes
// after the highest existing user or credit id so reopening a non-empty
// database never reissues an identifier.
func New(db *gorm.DB) (*Store, error) {
	var maxUser, maxCredit int
	if err := db.Model(&models.User{}).Select("COALESCE(MAX(id), 0)").Scan(&maxUser).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Credit{}).Select("COALESCE(MAX(id), 0)").Scan(&maxCredit).Error; err != nil {
		return nil, err
	}
	next := maxUser + 1
	if maxCredit >= next {
		next = maxCredit + 1
	}
	return &Store{db: db, ids: &idCounter{next: next}}, nil
}

// Tx runs fn against a transaction-scoped Store. Everything fn writes is
// applied atomically: concurrent readers observe all of it or none of it.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&Store{db: txdb, ids: s.ids})
	})
}

// GetUser returns the user by id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername returns the user by username, or nil when absent.
// Uniqueness of usernames is enforced at registration.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user with a fresh id and the seed balance.
// The password is stored as given; hashing happens in the auth service.
func (s *Store) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	u := models.User{
		ID:       s.ids.take(),
		Username: username,
		Password: password,
		Balance:  seedBalance,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProjects returns all projects. Order is not guaranteed.
func (s *Store) GetProjects(ctx context.Context) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	if err := s.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns the project by id, or nil when absent.
func (s *Store) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreateCredit appends a ledger entry, assigning a fresh id. The record is
// never mutated or deleted afterwards.
func (s *Store) CreateCredit(ctx context.Context, credit models.Credit) (*models.Credit, error) {
	credit.ID = s.ids.take()
	if err := s.db.WithContext(ctx).Create(&credit).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

// GetUserCredits returns the user's ledger entries in insertion order.
func (s *Store) GetUserCredits(ctx context.Context, userID int) ([]models.Credit, error) {
	credits := make([]models.Credit, 0)
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// UpdateUserBalance replaces the stored balance. No-op when the user is
// absent, matching the Express storage contract.
func (s *Store) UpdateUserBalance(ctx context.Context, userID int, balance decimal.Decimal) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("balance", balance).Error
}
