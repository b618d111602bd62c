//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/voxelsplace/schemglb/config"
	"github.com/voxelsplace/schemglb/utils"
)

func usage() {
	fmt.Println("Usage: schemtool [-config file.yaml] <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  schem2glb input.schem output.glb [pack ...]   (convert a schematic to .glb)")
	fmt.Println("  preview input.schem output.json [pack ...]    (write viewer parameters as JSON)")
	fmt.Println("  atlas input.schem output.png [pack ...]       (write the texture atlas)")
	fmt.Println("  inspect input.glb                             (validate and summarize a .glb)")
	fmt.Println("  warmcache output.glbcache input1.schem [input2.schem ...]  (convert into a cache pack)")
	fmt.Println("  unpackcache input.glbcache output_dir         (extract cached .glb files)")
	fmt.Println("  gennoise <percentage> <amount> <size> <output_dir>                      (random structures with fixed fill %)")
	fmt.Println("  gennoise <percentageMin> <percentageMax> <amount> <size> <output_dir>  (per-file random fill in [min,max])")
	fmt.Println("Packs are resource pack directories or zip files; earlier packs win over configured ones.")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func parseFloats(args []string) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fail(err)
		}
		out[i] = v
	}
	return out
}

func main() {
	log.SetFlags(0)
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fail(err)
		}
	}

	switch args[0] {
	case "schem2glb", "preview", "atlas":
		if len(args) < 3 {
			usage()
			os.Exit(1)
		}
		run := map[string]func(*config.Config, string, string, []string) error{
			"schem2glb": utils.RunSchem2GLB,
			"preview":   utils.RunPreview,
			"atlas":     utils.RunAtlas,
		}[args[0]]
		if err := run(cfg, args[1], args[2], args[3:]); err != nil {
			fail(err)
		}
	case "inspect":
		if len(args) != 2 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInspect(args[1], os.Stdout); err != nil {
			fail(err)
		}
	case "warmcache":
		if len(args) < 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunWarmCache(cfg, args[2:], args[1]); err != nil {
			fail(err)
		}
	case "unpackcache":
		if len(args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunUnpackCache(args[1], args[2]); err != nil {
			fail(err)
		}
	case "gennoise":
		// gennoise <percentage> <amount> <size> <output_dir>
		// gennoise <percentageMin> <percentageMax> <amount> <size> <output_dir>
		switch len(args) {
		case 5:
			v := parseFloats(args[1:4])
			if err := utils.RunGenerateNoiseSchem(v[0], int(v[1]), int(v[2]), args[4]); err != nil {
				fail(err)
			}
		case 6:
			v := parseFloats(args[1:5])
			if err := utils.RunGenerateNoiseSchemRange(v[0], v[1], int(v[2]), int(v[3]), args[5]); err != nil {
				fail(err)
			}
		default:
			usage()
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println("Operation completed!")
}
