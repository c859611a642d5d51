package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hugo/internal/store"
	storemodel "hugo/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type profileModel = storemodel.ProfileModel
type teamModel = storemodel.TeamModel
type teamMemberModel = storemodel.TeamMemberModel
type sessionModel = storemodel.SessionModel

// GormStore implements store.Store using Gorm + SQLite.
type GormStore struct {
	db *gorm.DB
}

var _ store.Store = (*GormStore)(nil)

// NewGormStore opens (creating when needed) the SQLite file at path and
// migrates the schema.
func NewGormStore(path string) (*GormStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: database path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return NewGormStoreFromDB(db)
}

// NewGormStoreFromDB wraps an already opened connection.
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm store: db cannot be nil")
	}
	models := []interface{}{
		&profileModel{},
		&teamModel{},
		&teamMemberModel{},
		&sessionModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: allow a small amount of parallelism for concurrent HTTP reads
	// while keeping lock contention low.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &GormStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB exposes the underlying *sql.DB for shared connections.
func (s *GormStore) SQLDB() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	return s.db.DB()
}

func (s *GormStore) Begin(ctx context.Context) (store.UnitOfWork, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormUnitOfWork{tx: tx}, nil
}

func (s *GormStore) Profiles() store.ProfileRepository { return &profileRepo{db: s.db} }
func (s *GormStore) Teams() store.TeamRepository       { return &teamRepo{db: s.db} }
func (s *GormStore) Sessions() store.SessionRepository { return &sessionRepo{db: s.db} }

type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Profiles() store.ProfileRepository { return &profileRepo{db: u.tx} }
func (u *gormUnitOfWork) Teams() store.TeamRepository       { return &teamRepo{db: u.tx} }
func (u *gormUnitOfWork) Sessions() store.SessionRepository { return &sessionRepo{db: u.tx} }

func (u *gormUnitOfWork) Commit() error {
	return u.tx.Commit().Error
}

func (u *gormUnitOfWork) Rollback() error {
	return u.tx.Rollback().Error
}

// --------------------------- Profiles ------------------------------

type profileRepo struct {
	db *gorm.DB
}

func (r *profileRepo) Insert(ctx context.Context, m *profileModel) error {
	if m == nil {
		return fmt.Errorf("nil profile")
	}
	if m.CreatedAtUnix == 0 {
		m.CreatedAtUnix = time.Now().UnixMilli()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*profileModel, error) {
	var m profileModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, notFound(err, "profile %s", id)
	}
	return &m, nil
}

func (r *profileRepo) LatestByRespondent(ctx context.Context, respondentID string) (*profileModel, error) {
	var m profileModel
	err := r.db.WithContext(ctx).
		Where("respondent_id = ?", respondentID).
		Order("completed_at DESC").
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, notFound(err, "profile of respondent %s", respondentID)
	}
	return &m, nil
}

// --------------------------- Teams ------------------------------

type teamRepo struct {
	db *gorm.DB
}

func (r *teamRepo) Insert(ctx context.Context, team *teamModel, members []teamMemberModel) error {
	if team == nil {
		return fmt.Errorf("nil team")
	}
	now := time.Now()
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	if team.UpdatedAt.IsZero() {
		team.UpdatedAt = team.CreatedAt
	}
	team.CreatedAtUnix = team.CreatedAt.UnixMilli()
	team.UpdatedAtUnix = team.UpdatedAt.UnixMilli()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		rows := make([]teamMemberModel, len(members))
		for i, m := range members {
			m.ID = 0
			m.TeamID = team.ID
			m.Position = i
			rows[i] = m
		}
		return tx.Create(&rows).Error
	})
}

func (r *teamRepo) FindByID(ctx context.Context, id string) (*teamModel, error) {
	var m teamModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "team %s", id)
	}
	m.CreatedAt = time.UnixMilli(m.CreatedAtUnix)
	m.UpdatedAt = time.UnixMilli(m.UpdatedAtUnix)
	return &m, nil
}

func (r *teamRepo) Members(ctx context.Context, teamID string) ([]teamMemberModel, error) {
	var rows []teamMemberModel
	if err := r.db.WithContext(ctx).Where("team_id = ?", teamID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------- Sessions ------------------------------

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) Save(ctx context.Context, m *sessionModel) error {
	if m == nil {
		return fmt.Errorf("nil session")
	}
	if m.UpdatedAtUnix == 0 {
		m.UpdatedAtUnix = time.Now().UnixMilli()
	}
	if m.CreatedAtUnix == 0 {
		m.CreatedAtUnix = m.UpdatedAtUnix
	}
	updates := clause.Assignments(map[string]interface{}{
		"state":      gorm.Expr("excluded.state"),
		"language":   gorm.Expr("excluded.language"),
		"context":    gorm.Expr("excluded.context"),
		"profile_id": gorm.Expr("excluded.profile_id"),
		"updated_at": gorm.Expr("excluded.updated_at"),
	})
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: updates,
	}).Create(m).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*sessionModel, error) {
	var m sessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "session %s", id)
	}
	return &m, nil
}

// --------------------------- Helpers ------------------------------

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), store.ErrNotFound)
	}
	return err
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
