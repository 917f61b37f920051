// Package scanner finds the token dumps under a directory tree.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the suffixes of token dumps written by the host
// tokenizer.
var DefaultExtensions = []string{".tokens", ".tokens.yaml", ".tokens.yml", ".tokens.json"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the root directory and returns the matching files sorted by
// path. Hidden directories are skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !Match(path, s.extensions) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Match reports whether path ends with one of the extensions. Extensions
// may span several dots, like ".tokens.json". An empty list matches
// everything.
func Match(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	base := filepath.Base(path)
	for _, ext := range extensions {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			return true
		}
	}
	return false
}
