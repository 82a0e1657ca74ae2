package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type PlayerRepository struct {
	db *Database
}

func NewPlayerRepository(db *Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID string) (player.Player, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if externalID == "" {
		return player.Player{}, false, nil
	}
	for _, item := range r.db.players {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetByNaturalKey(_ context.Context, naturalKey string) (player.Player, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, item := range r.db.players {
		if item.NaturalKey == naturalKey {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) ListRegistered(_ context.Context, teamID string, seasonIDs []string) ([]player.Registered, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[string]struct{}, len(seasonIDs))
	for _, id := range seasonIDs {
		wanted[id] = struct{}{}
	}

	out := make([]player.Registered, 0)
	for _, reg := range r.db.registrations {
		if reg.TeamID != teamID {
			continue
		}
		if _, ok := wanted[reg.SeasonID]; !ok {
			continue
		}
		p, ok := r.db.players[reg.PlayerID]
		if !ok {
			continue
		}
		out = append(out, player.Registered{Player: p, Registration: reg})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Player.ID != out[j].Player.ID {
			return out[i].Player.ID < out[j].Player.ID
		}
		if out[i].Registration.SeasonID != out[j].Registration.SeasonID {
			return out[i].Registration.SeasonID < out[j].Registration.SeasonID
		}
		return out[i].Registration.NormalizedName < out[j].Registration.NormalizedName
	})
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.players {
		if existing.ID == item.ID || existing.NaturalKey == item.NaturalKey {
			return storeerr.Mark(fmt.Errorf("insert player natural_key=%s: already exists", item.NaturalKey), storeerr.ErrDuplicateKey)
		}
		if item.ExternalID != "" && existing.ExternalID == item.ExternalID {
			return storeerr.Mark(fmt.Errorf("insert player external_id=%s: already exists", item.ExternalID), storeerr.ErrDuplicateKey)
		}
	}
	r.db.players[item.ID] = item
	return nil
}

func (r *PlayerRepository) UpsertRegistration(_ context.Context, item player.Registration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.players[item.PlayerID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert registration player_id=%s: player not found", item.PlayerID), storeerr.ErrForeignKey)
	}
	if _, ok := r.db.teams[item.TeamID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert registration team_id=%s: team not found", item.TeamID), storeerr.ErrForeignKey)
	}
	if _, ok := r.db.seasons[item.SeasonID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert registration season_id=%s: season not found", item.SeasonID), storeerr.ErrForeignKey)
	}
	r.db.registrations[registrationKey(item)] = item
	return nil
}

func registrationKey(item player.Registration) string {
	return item.PlayerID + "|" + item.TeamID + "|" + item.SeasonID + "|" + item.NormalizedName
}
