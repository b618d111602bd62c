package schem

import "testing"

func TestParseBlockState(t *testing.T) {
	tests := []struct {
		state string
		name  string
		props map[string]string
	}{
		{"minecraft:stone", "minecraft:stone", nil},
		{"minecraft:oak_log[axis=x]", "minecraft:oak_log", map[string]string{"axis": "x"}},
		{"minecraft:chest[facing=north,waterlogged]", "minecraft:chest", map[string]string{"facing": "north", "waterlogged": "true"}},
		{"minecraft:lever[]", "minecraft:lever", map[string]string{}},
		{"custom:thing[a=b=c]", "custom:thing", map[string]string{"a": "b=c"}},
	}
	for _, tt := range tests {
		got := ParseBlockState(tt.state)
		if got.Name != tt.name {
			t.Errorf("ParseBlockState(%q).Name = %q, want %q", tt.state, got.Name, tt.name)
		}
		if !got.Equal(Block{Name: tt.name, Properties: tt.props}) {
			t.Errorf("ParseBlockState(%q).Properties = %v, want %v", tt.state, got.Properties, tt.props)
		}
	}
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		block Block
		want  string
	}{
		{Block{Name: "minecraft:stone"}, "minecraft:stone"},
		{Block{Name: "minecraft:stairs", Properties: map[string]string{"half": "top", "facing": "east"}}, "minecraft:stairs[facing=east,half=top]"},
		{Block{Name: "minecraft:glass", Properties: map[string]string{}}, "minecraft:glass"},
	}
	for _, tt := range tests {
		if got := tt.block.CacheKey(); got != tt.want {
			t.Errorf("CacheKey(%v) = %q, want %q", tt.block, got, tt.want)
		}
	}
	state := "minecraft:stairs[facing=east,half=top]"
	if got := ParseBlockState(state).CacheKey(); got != state {
		t.Errorf("CacheKey round trip = %q, want %q", got, state)
	}
}

func TestBlockPredicates(t *testing.T) {
	tests := []struct {
		name        string
		air         bool
		transparent bool
	}{
		{"minecraft:air", true, true},
		{"air", true, true},
		{"minecraft:cave_air", false, true},
		{"mod:air", true, true},
		{"minecraft:void_air", false, true},
		{"minecraft:stone", false, false},
		{"minecraft:glass", false, true},
		{"minecraft:glass_pane", false, true},
		{"minecraft:ice", false, true},
		{"minecraft:water", false, true},
		{"minecraft:kelp_plant", false, true},
		{"minecraft:torch", false, true},
		{"minecraft:barrier", false, true},
		{"minecraft:light", false, true},
		{"minecraft:light_gray_wool", false, false},
		{"minecraft:tinted_glass", false, false},
	}
	for _, tt := range tests {
		b := Block{Name: tt.name}
		if got := b.IsAir(); got != tt.air {
			t.Errorf("%s IsAir = %v, want %v", tt.name, got, tt.air)
		}
		if got := b.IsTransparent(); got != tt.transparent {
			t.Errorf("%s IsTransparent = %v, want %v", tt.name, got, tt.transparent)
		}
	}
}

func TestBlockEqual(t *testing.T) {
	a := Block{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "y"}}
	b := Block{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "y"}}
	c := Block{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "x"}}
	if !a.Equal(b) {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %v != %v", a, c)
	}
	if !(Block{Name: "minecraft:stone"}).Equal(Block{Name: "minecraft:stone", Properties: map[string]string{}}) {
		t.Fatalf("nil and empty properties should compare equal")
	}
}

func TestNamespaceAndPath(t *testing.T) {
	b := Block{Name: "create:cogwheel"}
	if b.Namespace() != "create" || b.Path() != "cogwheel" {
		t.Fatalf("got %q %q", b.Namespace(), b.Path())
	}
	bare := Block{Name: "stone"}
	if bare.Namespace() != "minecraft" || bare.Path() != "stone" {
		t.Fatalf("got %q %q", bare.Namespace(), bare.Path())
	}
}
