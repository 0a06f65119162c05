// Package repository defines the storage interfaces the service and handler
// layers depend on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/anakena/club-server/internal/model"
)

// UserRepository persists credential records.
//
// Create must fail atomically with a field-specific duplicate error (see
// apperror.Duplicate) when the username or email unique constraint is
// violated — the storage layer's constraints are the source of truth, there
// is no check-then-insert race. GetByEmail returns the FULL record including
// the password hash; callers expose only model.PublicUser externally.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// Resource repositories. Each club resource keys on its small numeric public
// id (the one the frontend routes by), mirroring the wire contract.

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id int) (*model.Team, error)
	List(ctx context.Context) ([]model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, id int) error
}

type PlayerRepository interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id int) (*model.Player, error)
	// List returns all players, or only a team's roster when teamID > 0.
	List(ctx context.Context, teamID int) ([]model.Player, error)
	Update(ctx context.Context, player *model.Player) error
	Delete(ctx context.Context, id int) error
}

type MatchRepository interface {
	Create(ctx context.Context, match *model.Match) error
	GetByID(ctx context.Context, id int) (*model.Match, error)
	// List returns all matches, or only a team's fixtures when teamID > 0.
	List(ctx context.Context, teamID int) ([]model.Match, error)
	Update(ctx context.Context, match *model.Match) error
	Delete(ctx context.Context, id int) error
}

type NewsRepository interface {
	Create(ctx context.Context, item *model.NewsItem) error
	GetByID(ctx context.Context, id int) (*model.NewsItem, error)
	// List returns all articles, or only front-page ones when featuredOnly.
	List(ctx context.Context, featuredOnly bool) ([]model.NewsItem, error)
	Update(ctx context.Context, item *model.NewsItem) error
	Delete(ctx context.Context, id int) error
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *model.Tournament) error
	GetByID(ctx context.Context, id int) (*model.Tournament, error)
	List(ctx context.Context) ([]model.Tournament, error)
	Update(ctx context.Context, tournament *model.Tournament) error
	Delete(ctx context.Context, id int) error
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id int) error
}

type StoreRepository interface {
	Create(ctx context.Context, item *model.StoreItem) error
	GetByID(ctx context.Context, id int) (*model.StoreItem, error)
	List(ctx context.Context) ([]model.StoreItem, error)
	Update(ctx context.Context, item *model.StoreItem) error
	Delete(ctx context.Context, id int) error
}
