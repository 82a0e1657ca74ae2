// Package identity maps names and external ids reported by match documents to
// stable team and player ids.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/riskibarqy/nwsl-stats/internal/domain/match"
	"github.com/riskibarqy/nwsl-stats/internal/domain/player"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/domain/team"
	"github.com/riskibarqy/nwsl-stats/internal/platform/cache"
	"github.com/riskibarqy/nwsl-stats/internal/platform/id"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

var ErrAmbiguous = errors.New("entity resolution is ambiguous")

const (
	kindTeam   = "team"
	kindPlayer = "player"

	maxSuggestions = 3
)

// AmbiguityError lists the stored entities a reported name could refer to.
// Resolution never picks one of them.
type AmbiguityError struct {
	Kind        string
	Name        string
	TeamID      string
	SeasonID    string
	Candidates  []string
	Suggestions []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s %q in team=%s season=%s matches %d candidates: %s",
		e.Kind, e.Name, e.TeamID, e.SeasonID, len(e.Candidates), strings.Join(e.Candidates, ","))
}

func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}

// PlayerInput is one player row as reported for a team in a season.
type PlayerInput struct {
	Season      season.Season
	TeamID      string
	ExternalID  string
	Name        string
	ShirtNumber *int
}

// Resolution is the outcome of resolving one player.
type Resolution struct {
	Player player.Player
	// Minted is set when no stored player matched and a new one was created.
	Minted bool
	// Suggestions holds near-miss registered names for a minted name-only player.
	Suggestions []string
}

// Resolver is scoped to a single pipeline run. Its caches never outlive the run.
type Resolver struct {
	teams   team.Repository
	players player.Repository
	matches match.Repository
	ids     *id.DeterministicGenerator
	logger  *logging.Logger

	teamCache   *cache.Store[team.Team]
	playerCache *cache.Store[player.Player]
	mintedTeam  *cache.Store[team.Team]
	minted      *cache.Store[player.Player]
}

func NewResolver(
	teams team.Repository,
	players player.Repository,
	matches match.Repository,
	ids *id.DeterministicGenerator,
	logger *logging.Logger,
) *Resolver {
	if ids == nil {
		ids = id.NewDeterministicGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Resolver{
		teams:       teams,
		players:     players,
		matches:     matches,
		ids:         ids,
		logger:      logger,
		teamCache:   cache.NewStore[team.Team](0),
		playerCache: cache.NewStore[player.Player](0),
		mintedTeam:  cache.NewStore[team.Team](0),
		minted:      cache.NewStore[player.Player](0),
	}
}

// ResolveTeam finds a team by external id, then by normalized name or alias,
// and mints it when neither matches. The reported name is recorded as an alias
// for the season.
func (r *Resolver) ResolveTeam(ctx context.Context, s season.Season, externalID, name string) (team.Team, error) {
	externalID = strings.TrimSpace(externalID)
	name = strings.Join(strings.Fields(name), " ")
	normalized := NormalizeName(name)
	if externalID == "" && normalized == "" {
		return team.Team{}, fmt.Errorf("resolve team: name or external id is required")
	}

	cacheKey := "name:" + normalized
	if externalID != "" {
		cacheKey = "ext:" + externalID
	}
	if cached, ok := r.teamCache.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	resolved, found, err := r.lookupTeam(ctx, externalID, normalized, name, s.ID)
	if err != nil {
		return team.Team{}, err
	}
	if !found {
		resolved, err = r.mintTeam(ctx, externalID, name, normalized)
		if err != nil {
			return team.Team{}, err
		}
	}

	if name != "" {
		if err := r.teams.UpsertAlias(ctx, team.Alias{
			TeamID:         resolved.ID,
			SeasonID:       s.ID,
			Name:           name,
			NormalizedName: normalized,
		}); err != nil {
			return team.Team{}, fmt.Errorf("record team alias %q: %w", name, err)
		}
	}

	r.teamCache.Set(ctx, cacheKey, resolved)
	return resolved, nil
}

func (r *Resolver) lookupTeam(ctx context.Context, externalID, normalized, name, seasonID string) (team.Team, bool, error) {
	if externalID != "" {
		item, ok, err := r.teams.GetByExternalID(ctx, externalID)
		if err != nil {
			return team.Team{}, false, fmt.Errorf("get team by external id %s: %w", externalID, err)
		}
		if ok {
			return item, true, nil
		}
	}
	if normalized == "" {
		return team.Team{}, false, nil
	}

	candidates, err := r.teams.FindByAlias(ctx, normalized)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("find team by alias %q: %w", normalized, err)
	}
	matched := make([]team.Team, 0, len(candidates))
	for _, candidate := range candidates {
		if externalID != "" && candidate.ExternalID != "" && candidate.ExternalID != externalID {
			continue
		}
		matched = append(matched, candidate)
	}

	switch len(matched) {
	case 0:
		return team.Team{}, false, nil
	case 1:
		return matched[0], true, nil
	default:
		ids := make([]string, 0, len(matched))
		for _, candidate := range matched {
			ids = append(ids, candidate.ID)
		}
		return team.Team{}, false, &AmbiguityError{Kind: kindTeam, Name: name, SeasonID: seasonID, Candidates: ids}
	}
}

func (r *Resolver) mintTeam(ctx context.Context, externalID, name, normalized string) (team.Team, error) {
	naturalKey := "name:" + normalized
	if externalID != "" {
		naturalKey = "fbref:" + externalID
	}

	return r.mintedTeam.GetOrLoad(ctx, naturalKey, func(ctx context.Context) (team.Team, error) {
		item := team.Team{
			ID:             r.ids.FromKey(kindTeam, naturalKey),
			ExternalID:     externalID,
			Name:           name,
			NormalizedName: normalized,
			NaturalKey:     naturalKey,
		}
		if item.Name == "" {
			item.Name = externalID
		}
		if err := item.Validate(); err != nil {
			return team.Team{}, fmt.Errorf("mint team: %w", err)
		}

		err := r.teams.Create(ctx, item)
		switch {
		case err == nil:
			r.logger.DebugContext(ctx, "minted team", "team_id", item.ID, "natural_key", naturalKey)
			return item, nil
		case storeerr.IsDuplicateKey(err):
			existing, ok, getErr := r.teams.GetByNaturalKey(ctx, naturalKey)
			if getErr != nil {
				return team.Team{}, fmt.Errorf("reload team %s: %w", naturalKey, getErr)
			}
			if !ok {
				return team.Team{}, fmt.Errorf("team %s reported duplicate but is missing: %w", naturalKey, err)
			}
			return existing, nil
		default:
			return team.Team{}, fmt.Errorf("create team %s: %w", naturalKey, err)
		}
	})
}

// ResolvePlayer runs the lookup chain: run cache, external id, exact
// registration in the season, normalized name on the same team within one
// season either side, and finally mints a new player. Every resolved player
// is registered to the team for the season under the reported name.
func (r *Resolver) ResolvePlayer(ctx context.Context, in PlayerInput) (Resolution, error) {
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	normalized := NormalizeName(in.Name)
	if in.ExternalID == "" && normalized == "" {
		return Resolution{}, fmt.Errorf("resolve player: name or external id is required")
	}
	if in.TeamID == "" || in.Season.ID == "" {
		return Resolution{}, fmt.Errorf("resolve player %q: team and season are required", in.Name)
	}

	nameKey := "reg:" + in.Season.ID + ":" + in.TeamID + ":" + normalized
	extKey := ""
	if in.ExternalID != "" {
		extKey = "ext:" + in.ExternalID
	}
	if cached, ok := r.playerCache.Get(ctx, extKey); ok {
		return r.register(ctx, in, normalized, Resolution{Player: cached})
	}
	if in.ExternalID == "" {
		if cached, ok := r.playerCache.Get(ctx, nameKey); ok {
			return r.register(ctx, in, normalized, Resolution{Player: cached})
		}
	}

	res, err := r.lookupPlayer(ctx, in, normalized)
	if err != nil {
		return Resolution{}, err
	}
	res, err = r.register(ctx, in, normalized, res)
	if err != nil {
		return Resolution{}, err
	}

	r.playerCache.Set(ctx, extKey, res.Player)
	if in.ExternalID == "" {
		r.playerCache.Set(ctx, nameKey, res.Player)
	}
	return res, nil
}

func (r *Resolver) lookupPlayer(ctx context.Context, in PlayerInput, normalized string) (Resolution, error) {
	if in.ExternalID != "" {
		item, ok, err := r.players.GetByExternalID(ctx, in.ExternalID)
		if err != nil {
			return Resolution{}, fmt.Errorf("get player by external id %s: %w", in.ExternalID, err)
		}
		if ok {
			return Resolution{Player: item}, nil
		}
	}

	current, err := r.players.ListRegistered(ctx, in.TeamID, []string{in.Season.ID})
	if err != nil {
		return Resolution{}, fmt.Errorf("list registered players team=%s season=%s: %w", in.TeamID, in.Season.ID, err)
	}
	exact := candidates(current, in.ExternalID, func(reg player.Registered) bool {
		return reg.Registration.Name == in.Name
	})
	if res, done, err := r.pick(exact, in); done || err != nil {
		return res, err
	}

	window, err := r.players.ListRegistered(ctx, in.TeamID, seasonWindow(in.Season))
	if err != nil {
		return Resolution{}, fmt.Errorf("list registered players team=%s around season=%s: %w", in.TeamID, in.Season.ID, err)
	}
	fuzzyMatched := candidates(window, in.ExternalID, func(reg player.Registered) bool {
		return normalized != "" && (reg.Registration.NormalizedName == normalized || reg.Player.NormalizedName == normalized)
	})
	if res, done, err := r.pick(fuzzyMatched, in); done || err != nil {
		return res, err
	}

	minted, err := r.mintPlayer(ctx, in, normalized)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Player: minted, Minted: true}
	if in.ExternalID == "" {
		res.Suggestions = suggest(in.Name, window)
	}
	return res, nil
}

// pick reports done when exactly one candidate matched and fails when several did.
func (r *Resolver) pick(matched []player.Player, in PlayerInput) (Resolution, bool, error) {
	switch len(matched) {
	case 0:
		return Resolution{}, false, nil
	case 1:
		return Resolution{Player: matched[0]}, true, nil
	default:
		ids := make([]string, 0, len(matched))
		names := make([]string, 0, len(matched))
		for _, candidate := range matched {
			ids = append(ids, candidate.ID)
			names = append(names, candidate.Name)
		}
		return Resolution{}, true, &AmbiguityError{
			Kind:        kindPlayer,
			Name:        in.Name,
			TeamID:      in.TeamID,
			SeasonID:    in.Season.ID,
			Candidates:  ids,
			Suggestions: names,
		}
	}
}

func (r *Resolver) mintPlayer(ctx context.Context, in PlayerInput, normalized string) (player.Player, error) {
	naturalKey := "name:" + in.Season.ID + ":" + in.TeamID + ":" + normalized
	if in.ExternalID != "" {
		naturalKey = "fbref:" + in.ExternalID
	}

	return r.minted.GetOrLoad(ctx, naturalKey, func(ctx context.Context) (player.Player, error) {
		item := player.Player{
			ID:             r.ids.FromKey(kindPlayer, naturalKey),
			ExternalID:     in.ExternalID,
			Name:           in.Name,
			NormalizedName: normalized,
			NaturalKey:     naturalKey,
		}
		if err := item.Validate(); err != nil {
			return player.Player{}, fmt.Errorf("mint player: %w", err)
		}

		err := r.players.Create(ctx, item)
		switch {
		case err == nil:
			r.logger.DebugContext(ctx, "minted player", "player_id", item.ID, "natural_key", naturalKey)
			return item, nil
		case storeerr.IsDuplicateKey(err):
			existing, ok, getErr := r.players.GetByNaturalKey(ctx, naturalKey)
			if getErr == nil && !ok && in.ExternalID != "" {
				existing, ok, getErr = r.players.GetByExternalID(ctx, in.ExternalID)
			}
			if getErr != nil {
				return player.Player{}, fmt.Errorf("reload player %s: %w", naturalKey, getErr)
			}
			if !ok {
				return player.Player{}, fmt.Errorf("player %s reported duplicate but is missing: %w", naturalKey, err)
			}
			return existing, nil
		default:
			return player.Player{}, fmt.Errorf("create player %s: %w", naturalKey, err)
		}
	})
}

func (r *Resolver) register(ctx context.Context, in PlayerInput, normalized string, res Resolution) (Resolution, error) {
	if err := r.players.UpsertRegistration(ctx, player.Registration{
		PlayerID:       res.Player.ID,
		TeamID:         in.TeamID,
		SeasonID:       in.Season.ID,
		Name:           in.Name,
		NormalizedName: normalized,
		ShirtNumber:    in.ShirtNumber,
	}); err != nil {
		return Resolution{}, fmt.Errorf("register player %s team=%s season=%s: %w", res.Player.ID, in.TeamID, in.Season.ID, err)
	}
	return res, nil
}

// EnsureMatch creates the match on first encounter and refreshes its date and
// roster size afterwards.
func (r *Resolver) EnsureMatch(ctx context.Context, item match.Match) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("ensure match: %w", err)
	}
	if err := r.matches.Upsert(ctx, item); err != nil {
		return fmt.Errorf("ensure match %s: %w", item.ID, err)
	}
	return nil
}

// candidates returns the distinct players whose registration satisfies match,
// skipping players known under a different external id.
func candidates(regs []player.Registered, externalID string, match func(player.Registered) bool) []player.Player {
	seen := make(map[string]struct{})
	out := make([]player.Player, 0)
	for _, reg := range regs {
		if !match(reg) {
			continue
		}
		if externalID != "" && reg.Player.ExternalID != "" && reg.Player.ExternalID != externalID {
			continue
		}
		if _, ok := seen[reg.Player.ID]; ok {
			continue
		}
		seen[reg.Player.ID] = struct{}{}
		out = append(out, reg.Player)
	}
	return out
}

func seasonWindow(s season.Season) []string {
	return []string{
		season.ID(s.League, s.Year-1),
		s.ID,
		season.ID(s.League, s.Year+1),
	}
}

// suggest lists registered names close to name, best first.
func suggest(name string, regs []player.Registered) []string {
	if name == "" || len(regs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(regs))
	targets := make([]string, 0, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.Registration.Name]; ok {
			continue
		}
		seen[reg.Registration.Name] = struct{}{}
		targets = append(targets, reg.Registration.Name)
	}

	type scored struct {
		name     string
		distance int
	}
	var hits []scored
	ranked := fuzzy.RankFindNormalizedFold(name, targets)
	for _, rank := range ranked {
		hits = append(hits, scored{name: rank.Target, distance: rank.Distance})
	}
	folded := NormalizeName(name)
	for _, target := range targets {
		d := fuzzy.LevenshteinDistance(folded, NormalizeName(target))
		if d > 0 && d <= 2 {
			hits = append(hits, scored{name: target, distance: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].name < hits[j].name
	})

	out := make([]string, 0, maxSuggestions)
	picked := make(map[string]struct{}, maxSuggestions)
	for _, hit := range hits {
		if _, ok := picked[hit.name]; ok {
			continue
		}
		picked[hit.name] = struct{}{}
		out = append(out, hit.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
