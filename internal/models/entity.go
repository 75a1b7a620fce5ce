// Package models defines the shared data structures for the content
// intelligence engine.
package models

import "strings"

// EntityType classifies a named entity.
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityConcept      EntityType = "Concept"
	EntityProduct      EntityType = "Product"
	EntityLocation     EntityType = "Location"
	EntityEvent        EntityType = "Event"
)

// CoverageLevel is the depth ladder for how thoroughly an entity is treated.
type CoverageLevel string

const (
	CoverageMissing   CoverageLevel = "missing"
	CoverageMentioned CoverageLevel = "mentioned"
	CoverageExplained CoverageLevel = "explained"
	CoverageDetailed  CoverageLevel = "detailed"
)

// Entity is a named thing (person, product, concept) mentioned in text.
// Coverage always reflects Mentions; use NewEntity or SetMentions rather
// than writing the fields independently.
type Entity struct {
	Name               string           `json:"name"`
	Type               EntityType       `json:"type"`
	Mentions           int              `json:"mentions"`
	CompetitorMentions int              `json:"competitor_mentions"`
	Coverage           CoverageLevel    `json:"coverage"`
	Importance         int              `json:"importance"` // 0-100
	SuggestedPlacement *EntityPlacement `json:"suggested_placement,omitempty"`
}

// EntityPlacement locates where a missing entity should be introduced.
type EntityPlacement struct {
	Section string `json:"section"` // heading text
	Context string `json:"context"` // how to introduce it naturally
}

// NewEntity builds an entity with coverage derived from its mention count.
func NewEntity(name string, typ EntityType, mentions, importance int) Entity {
	return Entity{
		Name:       name,
		Type:       typ,
		Mentions:   mentions,
		Coverage:   CoverageForMentions(mentions),
		Importance: clampScore(importance),
	}
}

// SetMentions updates the mention count and the derived coverage level.
func (e *Entity) SetMentions(mentions int) {
	e.Mentions = mentions
	e.Coverage = CoverageForMentions(mentions)
}

// ParseEntityType canonicalizes a free-form type label. Unknown labels map
// to Concept, matching how model responses are treated.
func ParseEntityType(s string) EntityType {
	switch strings.ToLower(s) {
	case "person":
		return EntityPerson
	case "organization", "company":
		return EntityOrganization
	case "product", "technology":
		return EntityProduct
	case "location":
		return EntityLocation
	case "event":
		return EntityEvent
	default:
		return EntityConcept
	}
}

// CoverageForMentions maps a mention count onto the depth ladder.
// Zero mentions is always "missing".
func CoverageForMentions(mentions int) CoverageLevel {
	switch {
	case mentions == 0:
		return CoverageMissing
	case mentions <= 2:
		return CoverageMentioned
	case mentions <= 5:
		return CoverageExplained
	default:
		return CoverageDetailed
	}
}

// EstimateImportance derives an importance score for entities that were only
// seen in the competitor corpus, where no model judgment is available.
func EstimateImportance(competitorMentions int) int {
	return clampScore(competitorMentions * 3)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
