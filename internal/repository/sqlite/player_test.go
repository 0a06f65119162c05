package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
)

func createTestPlayer(t *testing.T, p *PlayerDB, id, teamID int, name string) {
	t.Helper()
	err := p.Create(context.Background(), &model.Player{
		ID:       id,
		Name:     name,
		TeamID:   teamID,
		Position: "Delantero",
		Number:   id,
		Age:      21,
		Carrera:  "Ingeniería",
	})
	if err != nil {
		t.Fatalf("failed to create test player: %v", err)
	}
}

func TestPlayerList_AllAndFiltered(t *testing.T) {
	players := newTestDB(t).Players()

	createTestPlayer(t, players, 1, 10, "Ana")
	createTestPlayer(t, players, 2, 10, "Ben")
	createTestPlayer(t, players, 3, 20, "Cata")

	all, err := players.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(List(0)) = %d, want 3", len(all))
	}

	roster, err := players.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List(10) error = %v", err)
	}
	if len(roster) != 2 {
		t.Errorf("len(List(10)) = %d, want 2", len(roster))
	}
	for _, p := range roster {
		if p.TeamID != 10 {
			t.Errorf("filtered list contains player from team %d", p.TeamID)
		}
	}
}

func TestPlayerList_UnknownTeamIsEmptyNotError(t *testing.T) {
	players := newTestDB(t).Players()

	createTestPlayer(t, players, 1, 10, "Ana")

	// Filtering by a team nobody plays for is an empty list, not a 404
	list, err := players.List(context.Background(), 77)
	if err != nil {
		t.Fatalf("List(77) error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List(77) = %v, want empty non-nil slice", list)
	}
}

func TestPlayerUpdateRoundTrip(t *testing.T) {
	players := newTestDB(t).Players()

	createTestPlayer(t, players, 5, 10, "Ana")

	if err := players.Update(context.Background(), &model.Player{
		ID:        5,
		Name:      "Ana María",
		TeamID:    20,
		Position:  "Portera",
		Age:       22,
		IsCaptain: true,
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := players.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Ana María" || got.TeamID != 20 || !got.IsCaptain {
		t.Errorf("GetByID() after update = %+v", got)
	}
	// PUT is full replacement: fields absent from the update are zeroed
	if got.Number != 0 {
		t.Errorf("Number = %d after full replace, want 0", got.Number)
	}
}

func TestPlayerDelete_NotFound(t *testing.T) {
	players := newTestDB(t).Players()

	err := players.Delete(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}
