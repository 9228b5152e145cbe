package catalog

// namedResource is PokeAPI's {name, url} reference.
type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// resourceList is the paged collection envelope shared by all list endpoints.
type resourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []namedResource `json:"results"`
}

// pokemonResource is the subset of /pokemon/{name} the catalog reads.
type pokemonResource struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Types          []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		FrontShiny   string `json:"front_shiny"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

// evolutionTriggerResource is the subset of /evolution-trigger/{name} the catalog reads.
type evolutionTriggerResource struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Names []struct {
		Name     string        `json:"name"`
		Language namedResource `json:"language"`
	} `json:"names"`
	PokemonSpecies []namedResource `json:"pokemon_species"`
}

func (p *pokemonResource) toDetail() *DetailRecord {
	d := &DetailRecord{
		ID:             p.ID,
		Name:           p.Name,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
		Types:          make([]string, 0, len(p.Types)),
		Abilities:      make([]Ability, 0, len(p.Abilities)),
		Stats:          make([]Stat, 0, len(p.Stats)),
		Sprites: Sprites{
			Front:   p.Sprites.FrontDefault,
			Shiny:   p.Sprites.FrontShiny,
			Artwork: p.Sprites.Other.OfficialArtwork.FrontDefault,
		},
	}
	for _, t := range p.Types {
		d.Types = append(d.Types, t.Type.Name)
	}
	for _, a := range p.Abilities {
		d.Abilities = append(d.Abilities, Ability{Name: a.Ability.Name, Hidden: a.IsHidden})
	}
	for _, s := range p.Stats {
		d.Stats = append(d.Stats, Stat{Name: s.Stat.Name, Base: s.BaseStat})
	}
	return d
}

// englishName returns the English localized name, or "" when none is listed.
func (r *evolutionTriggerResource) englishName() string {
	for _, n := range r.Names {
		if n.Language.Name == "en" {
			return n.Name
		}
	}
	return ""
}
