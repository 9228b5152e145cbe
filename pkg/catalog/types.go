package catalog

import (
	"fmt"
	"math"
)

// MaxBaseStat is the base stat value drawn as a full bar.
const MaxBaseStat = 255

// ListingPage is one page of the entity listing.
type ListingPage struct {
	TotalCount int
	Items      []ListingItem
	PageIndex  int
}

// ListingItem is one row of a listing page.
type ListingItem struct {
	DisplayName string
	// SequentialID is offset+index+1 for browsed pages, the upstream id for searches.
	SequentialID int
	// DetailRef is the lower-cased name accepted by LoadDetail.
	DetailRef string
}

// DetailRecord is the shaped detail of one entity.
type DetailRecord struct {
	ID             int
	Name           string
	Height         int // decimetres
	Weight         int // hectograms
	BaseExperience int
	Types          []string
	Abilities      []Ability
	Stats          []Stat
	Sprites        Sprites
}

// Ability is one ability slot.
type Ability struct {
	Name   string
	Hidden bool
}

// Stat is one base stat.
type Stat struct {
	Name string
	Base int
}

// Sprites holds image URLs. Any of them may be empty.
type Sprites struct {
	Front   string
	Shiny   string
	Artwork string
}

// HeightMeters converts the upstream decimetres.
func (d *DetailRecord) HeightMeters() float64 {
	return float64(d.Height) / 10
}

// WeightKilograms converts the upstream hectograms.
func (d *DetailRecord) WeightKilograms() float64 {
	return float64(d.Weight) / 10
}

// ArtworkURL returns the official artwork, falling back to the front sprite.
func (d *DetailRecord) ArtworkURL() string {
	if d.Sprites.Artwork != "" {
		return d.Sprites.Artwork
	}
	return d.Sprites.Front
}

// Percent is the stat relative to MaxBaseStat, capped at 100.
func (s Stat) Percent() float64 {
	return math.Min(float64(s.Base)/MaxBaseStat*100, 100)
}

// EvolutionTrigger is one row of the evolution trigger table.
type EvolutionTrigger struct {
	ID           int
	Name         string
	DisplayName  string
	SpeciesCount int
}

// TriggerPage is one page of evolution triggers.
type TriggerPage struct {
	TotalCount int
	Items      []EvolutionTrigger
	PageIndex  int
}

// DetailView combines a detail record with the evolution trigger tab.
// TriggersErr is set when only the trigger tab failed to load.
type DetailView struct {
	Detail      *DetailRecord
	Triggers    *TriggerPage
	TriggersErr error
}

// FormatID renders an id the way the catalog displays it, e.g. "#025".
func FormatID(id int) string {
	return fmt.Sprintf("#%03d", id)
}
