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

var _ repository.PlayerRepository = (*PlayerDB)(nil)

// PlayerDB persists team rosters.
type PlayerDB struct {
	conn *sql.DB
}

var playerDuplicates = map[string]string{
	"id": "Player id already exists",
}

func (p *PlayerDB) Create(ctx context.Context, player *model.Player) error {
	res, err := p.conn.ExecContext(ctx,
		`INSERT INTO players (id, name, team_id, position, number, age, carrera, is_captain)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		insertID(player.ID), player.Name, player.TeamID, player.Position,
		player.Number, player.Age, player.Carrera, player.IsCaptain,
	)
	if err != nil {
		if dup := duplicateError(err, "players", playerDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting player %d: %w", player.ID, err)
	}
	if player.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new player id: %w", err)
		}
		player.ID = int(id)
	}
	return nil
}

func (p *PlayerDB) GetByID(ctx context.Context, id int) (*model.Player, error) {
	var player model.Player
	err := p.conn.QueryRowContext(ctx,
		`SELECT id, name, team_id, position, number, age, carrera, is_captain
		 FROM players WHERE id = ?`, id,
	).Scan(
		&player.ID, &player.Name, &player.TeamID, &player.Position,
		&player.Number, &player.Age, &player.Carrera, &player.IsCaptain,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("player", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting player %d: %w", id, err)
	}
	return &player, nil
}

func (p *PlayerDB) List(ctx context.Context, teamID int) ([]model.Player, error) {
	query := `SELECT id, name, team_id, position, number, age, carrera, is_captain
	          FROM players`
	args := []any{}
	if teamID > 0 {
		query += ` WHERE team_id = ?`
		args = append(args, teamID)
	}
	query += ` ORDER BY id`

	rows, err := p.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var player model.Player
		if err := rows.Scan(
			&player.ID, &player.Name, &player.TeamID, &player.Position,
			&player.Number, &player.Age, &player.Carrera, &player.IsCaptain,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning player row: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating player rows: %w", err)
	}
	return players, nil
}

func (p *PlayerDB) Update(ctx context.Context, player *model.Player) error {
	res, err := p.conn.ExecContext(ctx,
		`UPDATE players SET name = ?, team_id = ?, position = ?, number = ?,
		                    age = ?, carrera = ?, is_captain = ?
		 WHERE id = ?`,
		player.Name, player.TeamID, player.Position, player.Number,
		player.Age, player.Carrera, player.IsCaptain, player.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating player %d: %w", player.ID, err)
	}
	return notFoundIfZero(res, "player", player.ID)
}

func (p *PlayerDB) Delete(ctx context.Context, id int) error {
	res, err := p.conn.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting player %d: %w", id, err)
	}
	return notFoundIfZero(res, "player", id)
}
