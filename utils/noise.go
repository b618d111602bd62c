package utils

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/voxelsplace/schemglb/schem"
)

// noisePalette is the block set used by generated structures. Index 0 is air.
var noisePalette = []schem.Block{
	schem.Air,
	{Name: "minecraft:stone"},
	{Name: "minecraft:dirt"},
	{Name: "minecraft:grass_block", Properties: map[string]string{"snowy": "false"}},
	{Name: "minecraft:oak_planks"},
	{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "y"}},
	{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "x"}},
	{Name: "minecraft:cobblestone"},
	{Name: "minecraft:glass"},
	{Name: "minecraft:sand"},
	{Name: "minecraft:bricks"},
	{Name: "minecraft:crafting_table"},
}

// generateNoiseStructure creates a size³ structure with the given percentage
// of voxels filled with random non-air palette entries.
func generateNoiseStructure(percentage float64, size int, r *rand.Rand) *schem.Structure {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	s := schem.NewStructure(size, size, size, noisePalette)
	total := len(s.Voxels)
	want := int(float64(total)*(percentage/100.0) + 0.5)
	if want > total {
		want = total
	}

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	// Fisher-Yates over the first want positions only
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	for k := 0; k < want; k++ {
		s.Voxels[idx[k]] = int32(1 + r.Intn(len(noisePalette)-1))
	}
	return s
}

// RunGenerateNoiseSchem creates amount .schem files named 0.schem..(amount-1).schem
// in outDir, each a size³ cube filled to the given percentage.
func RunGenerateNoiseSchem(percentage float64, amount, size int, outDir string) error {
	return RunGenerateNoiseSchemRange(percentage, percentage, amount, size, outDir)
}

// RunGenerateNoiseSchemRange is RunGenerateNoiseSchem with a fill percentage
// sampled uniformly in [percentageMin, percentageMax] for each file.
func RunGenerateNoiseSchemRange(percentageMin, percentageMax float64, amount, size int, outDir string) error {
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}
	if amount < 0 {
		amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if percentageMin < 0 {
		percentageMin = 0
	}
	if percentageMax > 100 {
		percentageMax = 100
	}
	if percentageMax < percentageMin {
		percentageMin, percentageMax = percentageMax, percentageMin
	}

	start := time.Now()
	baseSeed := uint64(time.Now().UnixNano())
	for i := 0; i < amount; i++ {
		// per-file seed from a Weyl sequence
		const weyl = uint64(0x9e3779b97f4a7c15)
		seed := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(seed & 0x7fffffffffffffff)))

		perc := percentageMin
		if percentageMax > percentageMin {
			perc = percentageMin + r.Float64()*(percentageMax-percentageMin)
		}

		s := generateNoiseStructure(perc, size, r)
		path := filepath.Join(outDir, fmt.Sprintf("%d.schem", i))
		if err := schem.SaveStructure(s, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	log.Printf("gennoise: %d structures took %d ms", amount, time.Since(start).Milliseconds())
	return nil
}
