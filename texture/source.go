package texture

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Source is a resource pack: a directory tree or an archive.
type Source interface {
	// ReadBytes returns the file at a slash-separated path relative to the pack root.
	ReadBytes(rel string) ([]byte, bool)
}

// DirSource reads a resource pack unpacked on disk.
type DirSource struct {
	fsys fs.FS
}

func NewDirSource(root string) *DirSource { return &DirSource{fsys: os.DirFS(root)} }

func (d *DirSource) ReadBytes(rel string) ([]byte, bool) {
	if !fs.ValidPath(rel) {
		return nil, false
	}
	b, err := fs.ReadFile(d.fsys, rel)
	if err != nil {
		return nil, false
	}
	return b, true
}

// ZipSource reads a zipped resource pack held in memory. Packs whose assets/
// directory sits under a single top-level folder are handled transparently.
type ZipSource struct {
	files  map[string]*zip.File
	prefix string
}

func NewZipSourceFromBytes(data []byte) (*ZipSource, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("texture: open zip: %w", err)
	}
	z := &ZipSource{files: make(map[string]*zip.File, len(zr.File))}
	rooted := false
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		z.files[f.Name] = f
		if strings.HasPrefix(f.Name, "assets/") {
			rooted = true
		}
	}
	if !rooted {
		for name := range z.files {
			if i := strings.Index(name, "/assets/"); i > 0 && !strings.Contains(name[:i], "/") {
				z.prefix = name[:i+1]
				break
			}
		}
	}
	return z, nil
}

func (z *ZipSource) ReadBytes(rel string) ([]byte, bool) {
	f, ok := z.files[z.prefix+rel]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return b, true
}

// OpenSource opens a directory or a zip archive as a Source.
func OpenSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return NewDirSource(path), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewZipSourceFromBytes(data)
}
