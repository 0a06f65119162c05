package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

var _ repository.TournamentRepository = (*TournamentDB)(nil)

// TournamentDB persists competitions.
type TournamentDB struct {
	conn *sql.DB
}

var tournamentDuplicates = map[string]string{
	"id": "Tournament id already exists",
}

func (t *TournamentDB) Create(ctx context.Context, tournament *model.Tournament) error {
	res, err := t.conn.ExecContext(ctx,
		`INSERT INTO tournaments (id, name, sport, start_date, end_date, teams, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		insertID(tournament.ID), tournament.Name, tournament.Sport,
		tournament.StartDate, tournament.EndDate, tournament.Teams, tournament.Status,
	)
	if err != nil {
		if dup := duplicateError(err, "tournaments", tournamentDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting tournament %d: %w", tournament.ID, err)
	}
	if tournament.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new tournament id: %w", err)
		}
		tournament.ID = int(id)
	}
	return nil
}

func (t *TournamentDB) GetByID(ctx context.Context, id int) (*model.Tournament, error) {
	var tournament model.Tournament
	err := t.conn.QueryRowContext(ctx,
		`SELECT id, name, sport, start_date, end_date, teams, status
		 FROM tournaments WHERE id = ?`, id,
	).Scan(
		&tournament.ID, &tournament.Name, &tournament.Sport,
		&tournament.StartDate, &tournament.EndDate, &tournament.Teams, &tournament.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tournament", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting tournament %d: %w", id, err)
	}
	return &tournament, nil
}

func (t *TournamentDB) List(ctx context.Context) ([]model.Tournament, error) {
	rows, err := t.conn.QueryContext(ctx,
		`SELECT id, name, sport, start_date, end_date, teams, status
		 FROM tournaments ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := []model.Tournament{}
	for rows.Next() {
		var tournament model.Tournament
		if err := rows.Scan(
			&tournament.ID, &tournament.Name, &tournament.Sport,
			&tournament.StartDate, &tournament.EndDate, &tournament.Teams, &tournament.Status,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tournament row: %w", err)
		}
		tournaments = append(tournaments, tournament)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (t *TournamentDB) Update(ctx context.Context, tournament *model.Tournament) error {
	res, err := t.conn.ExecContext(ctx,
		`UPDATE tournaments SET name = ?, sport = ?, start_date = ?, end_date = ?, teams = ?, status = ?
		 WHERE id = ?`,
		tournament.Name, tournament.Sport, tournament.StartDate,
		tournament.EndDate, tournament.Teams, tournament.Status, tournament.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating tournament %d: %w", tournament.ID, err)
	}
	return notFoundIfZero(res, "tournament", tournament.ID)
}

func (t *TournamentDB) Delete(ctx context.Context, id int) error {
	res, err := t.conn.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tournament %d: %w", id, err)
	}
	return notFoundIfZero(res, "tournament", id)
}
