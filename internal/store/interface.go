package store

import (
	"context"
	"errors"

	"hugo/internal/store/model"
)

// ErrNotFound is returned by every repository lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// UnitOfWork defines a transaction scope.
type UnitOfWork interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback rolls back the transaction.
	Rollback() error

	Repositories
}

// Repositories groups the per-table repositories.
type Repositories interface {
	// Profiles returns the profile repository.
	Profiles() ProfileRepository
	// Teams returns the team and member repository.
	Teams() TeamRepository
	// Sessions returns the chat session repository.
	Sessions() SessionRepository
}

// Store is the entry point for database access. Calls made on the
// repositories outside Begin run in their own implicit transaction.
type Store interface {
	Repositories
	// Begin starts a new UnitOfWork (transaction).
	Begin(ctx context.Context) (UnitOfWork, error)
	// Close closes the store connection.
	Close() error
}

// ProfileRepository handles profile persistence. Profiles are never updated.
type ProfileRepository interface {
	Insert(ctx context.Context, profile *model.ProfileModel) error
	FindByID(ctx context.Context, id string) (*model.ProfileModel, error)
	LatestByRespondent(ctx context.Context, respondentID string) (*model.ProfileModel, error)
}

// TeamRepository handles teams and their ordered member lists.
type TeamRepository interface {
	Insert(ctx context.Context, team *model.TeamModel, members []model.TeamMemberModel) error
	FindByID(ctx context.Context, id string) (*model.TeamModel, error)
	Members(ctx context.Context, teamID string) ([]model.TeamMemberModel, error)
}

// SessionRepository upserts chat sessions by id.
type SessionRepository interface {
	Save(ctx context.Context, session *model.SessionModel) error
	FindByID(ctx context.Context, id string) (*model.SessionModel, error)
}
