package schem

import (
	"errors"
	"testing"
)

type failingNormalizer struct{}

func (failingNormalizer) Normalize(b Block) (Block, error) {
	if b.Name == "minecraft:stone" {
		return Block{Name: "minecraft:smooth_stone"}, nil
	}
	return Block{}, errors.New("unsupported")
}

func TestNormalizeKeepsGridAndPassesThroughFailures(t *testing.T) {
	s := NewStructure(2, 1, 1, []Block{{Name: "minecraft:stone"}, {Name: "mod:widget"}})
	s.Set(0, 0, 0, 0)
	s.Set(1, 0, 0, 1)

	got := Normalize(s, failingNormalizer{})
	if got.Palette[0].Name != "minecraft:smooth_stone" {
		t.Fatalf("palette[0] = %v", got.Palette[0])
	}
	if got.Palette[1].Name != "mod:widget" {
		t.Fatalf("palette[1] = %v, want pass-through", got.Palette[1])
	}
	if got.Bounds != s.Bounds || &got.Voxels[0] != &s.Voxels[0] {
		t.Fatalf("normalization must keep bounds and grid")
	}
	if s.Palette[0].Name != "minecraft:stone" {
		t.Fatalf("source structure was mutated")
	}
	if Normalize(s, nil) != s {
		t.Fatalf("nil normalizer should return the input")
	}
}

func TestAliasNormalizer(t *testing.T) {
	a := AliasNormalizer{"grass": "short_grass", "mod:old": "mod:new"}
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"minecraft:grass", "minecraft:short_grass", true},
		{"grass", "minecraft:short_grass", true},
		{"mod:old", "mod:new", true},
		{"minecraft:stone", "minecraft:stone", false},
	}
	for _, tt := range tests {
		got, err := a.Normalize(Block{Name: tt.in, Properties: map[string]string{"snowy": "false"}})
		if (err == nil) != tt.ok {
			t.Errorf("Normalize(%q) err = %v", tt.in, err)
		}
		if got.Name != tt.want || got.Properties["snowy"] != "false" {
			t.Errorf("Normalize(%q) = %v, want %s with properties kept", tt.in, got, tt.want)
		}
	}
	if _, err := DefaultAliases.Normalize(Block{Name: "minecraft:grass_path"}); err != nil {
		t.Fatalf("default aliases: %v", err)
	}
}
