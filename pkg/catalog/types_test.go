package catalog

import "testing"

func TestStat_Percent(t *testing.T) {
	tests := []struct {
		base int
		want float64
	}{
		{0, 0},
		{255, 100},
		{300, 100},
	}

	for _, tt := range tests {
		if got := (Stat{Base: tt.base}).Percent(); got != tt.want {
			t.Errorf("Stat{Base: %d}.Percent() = %v, want %v", tt.base, got, tt.want)
		}
	}

	if got := (Stat{Base: 51}).Percent(); got < 19.99 || got > 20.01 {
		t.Errorf("Stat{Base: 51}.Percent() = %v, want 20", got)
	}
}

func TestDetailRecord_ArtworkFallback(t *testing.T) {
	d := &DetailRecord{Sprites: Sprites{Front: "front.png"}}
	if got := d.ArtworkURL(); got != "front.png" {
		t.Errorf("ArtworkURL() = %q, want front.png", got)
	}

	d.Sprites.Artwork = "art.png"
	if got := d.ArtworkURL(); got != "art.png" {
		t.Errorf("ArtworkURL() = %q, want art.png", got)
	}
}

func TestFormatID(t *testing.T) {
	tests := map[int]string{1: "#001", 25: "#025", 151: "#151", 1025: "#1025"}
	for id, want := range tests {
		if got := FormatID(id); got != want {
			t.Errorf("FormatID(%d) = %q, want %q", id, got, want)
		}
	}
}
