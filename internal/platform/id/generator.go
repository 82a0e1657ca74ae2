package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for rows that have no natural key.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate random uuid: %w", err)
	}
	return value.String(), nil
}

// Namespace for entity ids minted from natural keys.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://fbref.com/en/comps/182/NWSL-Stats"))

// DeterministicGenerator derives the same id for the same natural key on every
// run and every worker, so concurrent minting converges on one row.
type DeterministicGenerator struct {
	namespace uuid.UUID
}

func NewDeterministicGenerator() *DeterministicGenerator {
	return &DeterministicGenerator{namespace: Namespace}
}

func (g *DeterministicGenerator) FromKey(kind, naturalKey string) string {
	name := strings.TrimSpace(kind) + "|" + strings.TrimSpace(naturalKey)
	return uuid.NewSHA1(g.namespace, []byte(name)).String()
}
