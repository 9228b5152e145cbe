package cache

import (
	"net/http"
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"detail", Key{Path: "/api/v2/pokemon/pikachu"}, "pokeapi:cache:api/v2/pokemon/pikachu"},
		{"trailing slash", Key{Path: "/api/v2/evolution-trigger/1/"}, "pokeapi:cache:api/v2/evolution-trigger/1"},
		{
			"query sorted by name",
			Key{Path: "/api/v2/pokemon", Query: url.Values{"offset": {"40"}, "limit": {"20"}}},
			"pokeapi:cache:api/v2/pokemon?limit=20&offset=40",
		},
		{"empty", Key{}, "pokeapi:cache:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyFor_IgnoresParameterOrder(t *testing.T) {
	a, _ := http.NewRequest(http.MethodGet, "https://pokeapi.co/api/v2/pokemon?offset=20&limit=20", nil)
	b, _ := http.NewRequest(http.MethodGet, "https://pokeapi.co/api/v2/pokemon?limit=20&offset=20", nil)

	if KeyFor(a).String() != KeyFor(b).String() {
		t.Errorf("KeyFor() differs: %q vs %q", KeyFor(a), KeyFor(b))
	}
}
