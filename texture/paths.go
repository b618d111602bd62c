package texture

import "strings"

// faceTextures names the distinct top/side/bottom textures of a block.
type faceTextures struct {
	top, side, bottom, front string
}

// Blocks whose faces cannot be guessed from suffixes.
var overrides = map[string]faceTextures{
	"grass_block":    {top: "grass_block_top", side: "grass_block_side", bottom: "dirt"},
	"podzol":         {top: "podzol_top", side: "podzol_side", bottom: "dirt"},
	"mycelium":       {top: "mycelium_top", side: "mycelium_side", bottom: "dirt"},
	"dirt_path":      {top: "dirt_path_top", side: "dirt_path_side", bottom: "dirt"},
	"farmland":       {top: "farmland", side: "dirt", bottom: "dirt"},
	"crafting_table": {top: "crafting_table_top", side: "crafting_table_side", bottom: "oak_planks", front: "crafting_table_front"},
	"furnace":        {top: "furnace_top", side: "furnace_side", bottom: "furnace_top", front: "furnace_front"},
	"tnt":            {top: "tnt_top", side: "tnt_side", bottom: "tnt_bottom"},
	"pumpkin":        {top: "pumpkin_top", side: "pumpkin_side", bottom: "pumpkin_top"},
	"bookshelf":      {top: "oak_planks", side: "bookshelf", bottom: "oak_planks"},
	"sandstone":      {top: "sandstone_top", side: "sandstone", bottom: "sandstone_bottom"},
	"red_sandstone":  {top: "red_sandstone_top", side: "red_sandstone", bottom: "red_sandstone_bottom"},
}

var (
	topSuffixes    = []string{"_top", "_up", "_upper", "_end", "_face", ""}
	bottomSuffixes = []string{"_bottom", "_down", "_lower", "_end", "_face", ""}
	sideSuffixes   = []string{"_side", "_side0", "_side1", "_front", ""}
)

// candidates lists texture names to try for one face of base, best first.
func candidates(base string, f Face) []string {
	var out []string
	o, ok := overrides[base]
	suffixes := sideSuffixes
	switch f {
	case Up:
		suffixes = topSuffixes
		if ok {
			out = append(out, o.top)
		}
	case Down:
		suffixes = bottomSuffixes
		if ok {
			out = append(out, o.bottom)
		}
	default:
		if ok {
			if f == North && o.front != "" {
				out = append(out, o.front)
			}
			out = append(out, o.side)
		}
	}
	for _, s := range suffixes {
		out = append(out, base+s)
	}
	return out
}

// normalizeTexturePath turns a model-style reference into "namespace:dir/name".
func normalizeTexturePath(namespace, ref string) string {
	ref = strings.TrimPrefix(ref, "#")
	ref = strings.TrimSuffix(ref, ".png")
	if ns, p, ok := strings.Cut(ref, ":"); ok {
		namespace, ref = ns, p
	}
	ref = strings.TrimPrefix(ref, "textures/")
	if !strings.Contains(ref, "/") {
		ref = "block/" + ref
	}
	return namespace + ":" + ref
}

// packPaths lists archive paths for a texture key, primary layout first.
func packPaths(key string) []string {
	ns, p, _ := strings.Cut(key, ":")
	paths := []string{
		"assets/" + ns + "/textures/" + p + ".png",
		"assets/" + ns + "/" + p + ".png",
	}
	if name, ok := strings.CutPrefix(p, "block/"); ok {
		paths = append(paths, "assets/"+ns+"/textures/item/"+name+".png")
	}
	return paths
}
