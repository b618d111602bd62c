package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/voxelsplace/schemglb/api"
	"github.com/voxelsplace/schemglb/cache"
	"github.com/voxelsplace/schemglb/config"
)

// NewCache builds the output cache described by cfg and loads its pack file
// when one is configured. It returns nil when caching is disabled.
func NewCache(cfg *config.Config) (*cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	comp, err := cache.ParseCompression(cfg.Cache.Compression)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache.MaxEntries, comp)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.File != "" {
		if err := c.LoadFile(cfg.Cache.File); err != nil {
			return nil, fmt.Errorf("load cache %s: %w", cfg.Cache.File, err)
		}
	}
	return c, nil
}

// RunWarmCache converts every input concurrently through a cached service and
// writes the resulting cache pack to outputFile. The first configured resource
// pack, if any, is used for every input.
func RunWarmCache(cfg *config.Config, inputFiles []string, outputFile string) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no .schem files provided")
	}
	comp, err := cache.ParseCompression(cfg.Cache.Compression)
	if err != nil {
		return err
	}
	c, err := cache.New(0, comp)
	if err != nil {
		return err
	}
	var packBytes []byte
	if len(cfg.ResourcePacks) > 0 {
		if packBytes, err = os.ReadFile(cfg.ResourcePacks[0]); err != nil {
			return err
		}
	}
	svc := api.NewService(api.OptionsFromConfig(cfg), c)

	start := time.Now()
	errs := make([]error, len(inputFiles))
	var wg sync.WaitGroup
	for i := range inputFiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := os.ReadFile(inputFiles[i])
			if err != nil {
				errs[i] = err
				return
			}
			if _, err := svc.Preview(context.Background(), data, packBytes); err != nil {
				errs[i] = fmt.Errorf("%s: %w", inputFiles[i], err)
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	log.Printf("warmcache: %d entries took %d ms", c.Len(), time.Since(start).Milliseconds())
	return c.SaveFile(outputFile)
}

// RunUnpackCache writes every GLB held in a cache pack into outputDir as
// <key>.glb, key in hex.
func RunUnpackCache(packFile, outputDir string) error {
	c, err := cache.New(0, cache.CompNone)
	if err != nil {
		return err
	}
	if _, err := os.Stat(packFile); err != nil {
		return err
	}
	if err := c.LoadFile(packFile); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	keys := c.Keys()
	var wg sync.WaitGroup
	errCh := make(chan error, len(keys))
	for _, key := range keys {
		wg.Add(1)
		go func(key uint64) {
			defer wg.Done()
			data, ok := c.Get(key)
			if !ok {
				errCh <- fmt.Errorf("entry %016x unreadable", key)
				return
			}
			res, err := api.CachedAsset(data)
			if err != nil {
				errCh <- fmt.Errorf("entry %016x: %w", key, err)
				return
			}
			if err := os.WriteFile(filepath.Join(outputDir, fmt.Sprintf("%016x.glb", key)), res.Bytes, 0o644); err != nil {
				errCh <- err
			}
		}(key)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
