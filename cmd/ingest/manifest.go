package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nwsl-stats/internal/domain/season"
	"github.com/riskibarqy/nwsl-stats/internal/extraction"
	"github.com/riskibarqy/nwsl-stats/internal/usecase"
	"gopkg.in/yaml.v3"
)

// manifest lists the matches of one season run:
//
//	season: nwsl-2016
//	matches:
//	  - id: 1a2b3c4d
//	  - id: 5e6f7a8b
//	    format: modern
type manifest struct {
	Season  string          `yaml:"season" validate:"required"`
	League  string          `yaml:"league"`
	Year    int             `yaml:"year" validate:"omitempty,gte=1900,lte=2100"`
	Matches []manifestMatch `yaml:"matches" validate:"required,min=1,dive"`
}

type manifestMatch struct {
	ID     string `yaml:"id" validate:"required,max=64"`
	Format string `yaml:"format"`
}

func loadManifest(path string) (manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return parseManifest(raw)
}

func parseManifest(raw []byte) (manifest, error) {
	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return manifest{}, fmt.Errorf("decode manifest: %w", err)
	}

	m.Season = strings.TrimSpace(m.Season)
	if m.Season == "" && m.Year > 0 {
		m.Season = season.ID(m.League, m.Year)
	}
	for i := range m.Matches {
		m.Matches[i].ID = strings.TrimSpace(m.Matches[i].ID)
	}

	if err := validator.New().Struct(m); err != nil {
		return manifest{}, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}

func (m manifest) refs() ([]usecase.MatchRef, error) {
	out := make([]usecase.MatchRef, 0, len(m.Matches))
	for _, item := range m.Matches {
		format, err := extraction.ParseFormat(item.Format)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", item.ID, err)
		}
		out = append(out, usecase.MatchRef{ID: item.ID, Format: format})
	}
	return out, nil
}
