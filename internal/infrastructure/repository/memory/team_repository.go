package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/nwsl-stats/internal/domain/team"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

type TeamRepository struct {
	db *Database
}

func NewTeamRepository(db *Database) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if externalID == "" {
		return team.Team{}, false, nil
	}
	for _, item := range r.db.teams {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) GetByNaturalKey(_ context.Context, naturalKey string) (team.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, item := range r.db.teams {
		if item.NaturalKey == naturalKey {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) FindByAlias(_ context.Context, normalizedName string) ([]team.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]team.Team, 0, 1)
	collect := func(teamID string) {
		if _, dup := seen[teamID]; dup {
			return
		}
		if item, ok := r.db.teams[teamID]; ok {
			seen[teamID] = struct{}{}
			out = append(out, item)
		}
	}
	for _, item := range r.db.teams {
		if item.NormalizedName == normalizedName {
			collect(item.ID)
		}
	}
	for _, alias := range r.db.teamAliases {
		if alias.NormalizedName == normalizedName {
			collect(alias.TeamID)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.teams {
		if existing.ID == item.ID || existing.NaturalKey == item.NaturalKey {
			return storeerr.Mark(fmt.Errorf("insert team natural_key=%s: already exists", item.NaturalKey), storeerr.ErrDuplicateKey)
		}
		if item.ExternalID != "" && existing.ExternalID == item.ExternalID {
			return storeerr.Mark(fmt.Errorf("insert team external_id=%s: already exists", item.ExternalID), storeerr.ErrDuplicateKey)
		}
	}
	r.db.teams[item.ID] = item
	return nil
}

func (r *TeamRepository) UpsertAlias(_ context.Context, alias team.Alias) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.teams[alias.TeamID]; !ok {
		return storeerr.Mark(fmt.Errorf("upsert team alias team_id=%s: team not found", alias.TeamID), storeerr.ErrForeignKey)
	}
	r.db.teamAliases[alias.TeamID+"|"+alias.SeasonID+"|"+alias.NormalizedName] = alias
	return nil
}
