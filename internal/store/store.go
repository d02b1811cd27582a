// Package store is the client's local sqlite state: stored credentials and
// unsubmitted document drafts. Everything business-durable lives server-side.
package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/ledgerline/internal/api"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrDraftNotFound = errors.New("draft_not_found")

type CredentialRecord struct {
	ID           uint `gorm:"primaryKey"`
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	DisplayName  string
	Role         string
	UpdatedAt    time.Time
}

func (CredentialRecord) TableName() string { return "credentials" }

// DraftRecord is a locally saved, unsubmitted document form. Payload is the
// JSON-encoded form snapshot; Kind is one of sale/purchase/quotation/return.
type DraftRecord struct {
	ID        string `gorm:"primaryKey"`
	Kind      string `gorm:"index"`
	CompanyID string `gorm:"index"`
	Payload   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DraftRecord) TableName() string { return "drafts" }

type Store struct {
	db      *gorm.DB
	entropy *rand.Rand
}

// Open opens (creating if needed) the sqlite database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return openDSN(filepath.Join(dir, "ledgerline.db"))
}

// memDBSeq names each in-memory database uniquely so stores opened by
// different tests in the same process do not share state.
var memDBSeq atomic.Int64

// OpenInMemory is for tests.
func OpenInMemory() (*Store, error) {
	return openDSN(fmt.Sprintf("file:memdb%d?mode=memory&cache=shared", memDBSeq.Add(1)))
}

func openDSN(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.AutoMigrate(&CredentialRecord{}, &DraftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Load implements api.CredentialStore. There is at most one credential row.
func (s *Store) Load(ctx context.Context) (*api.Credentials, error) {
	var rec CredentialRecord
	err := s.db.WithContext(ctx).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}
	return &api.Credentials{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		UserID:       rec.UserID,
		Email:        rec.Email,
		DisplayName:  rec.DisplayName,
		Role:         rec.Role,
	}, nil
}

func (s *Store) Save(ctx context.Context, creds *api.Credentials) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&CredentialRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&CredentialRecord{
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
			UserID:       creds.UserID,
			Email:        creds.Email,
			DisplayName:  creds.DisplayName,
			Role:         creds.Role,
		}).Error
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&CredentialRecord{}).Error
}

// SaveDraft stores a new draft and returns its id, or updates in place when
// id is non-empty.
func (s *Store) SaveDraft(ctx context.Context, id, kind, companyID, payload string) (string, error) {
	if id == "" {
		id = ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	}
	rec := DraftRecord{ID: id, Kind: kind, CompanyID: companyID, Payload: payload}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return "", fmt.Errorf("save draft: %w", err)
	}
	return id, nil
}

func (s *Store) Draft(ctx context.Context, id string) (*DraftRecord, error) {
	var rec DraftRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Drafts(ctx context.Context, kind, companyID string) ([]DraftRecord, error) {
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	var recs []DraftRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&DraftRecord{}, "id = ?", id).Error
}
