package replay

import (
	"path/filepath"
	"testing"
)

// #region test-round-trip
func TestFixtureRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		lab  *Labyrinth
	}{
		{"single room", SingleRoom()},
		{"two room", TwoRoom()},
		{"hexagon", Hexagon()},
	} {
		f := FixtureFromLabyrinth(tc.name, tc.lab)
		back, err := f.Labyrinth()
		if err != nil {
			t.Fatalf("%s: Labyrinth: %v", tc.name, err)
		}
		if !Equivalent(tc.lab, back) {
			t.Errorf("%s: round trip not equivalent", tc.name)
		}
	}
}

// #endregion test-round-trip

// #region test-save-load
func TestSaveAndLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexagon.json")
	f := FixtureFromLabyrinth("six-room ring", Hexagon())
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if loaded.Description != "six-room ring" {
		t.Errorf("description %q", loaded.Description)
	}
	lab, err := loaded.Labyrinth()
	if err != nil {
		t.Fatalf("Labyrinth: %v", err)
	}
	if !Equivalent(Hexagon(), lab) {
		t.Error("loaded fixture not equivalent to the original")
	}
}

func TestLoadFixtureRejectsBrokenChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	f := FixtureFromLabyrinth("broken", SingleRoom())
	f.Connections = f.Connections[:3] // drop half the doors
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected validation error")
	}
}

// #endregion test-save-load
