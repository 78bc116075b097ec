// Package index builds the queryable workspace model: it walks a source
// tree, extracts classes from every Java file in scope and answers the
// lookup and annotated-search queries the resolver layers on top.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/beanlens/beanlens/internal/javasrc"
	"github.com/beanlens/beanlens/internal/storage"
	"github.com/beanlens/beanlens/internal/symbol"
)

// parseCacheSize bounds the in-process parse cache.
const parseCacheSize = 1024

// Scanner walks source trees and produces Index values. A single Scanner can
// scan repeatedly; unchanged files are served from its caches.
type Scanner struct {
	store *storage.Store
	log   *slog.Logger
	cache *lru.Cache[string, []symbol.Class]
}

// NewScanner returns a Scanner. store may be nil to disable the persistent
// cache; logger may be nil to use the default.
func NewScanner(store *storage.Store, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []symbol.Class](parseCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Scanner{store: store, log: logger, cache: cache}, nil
}

// Scan walks fsys and indexes every .java file not excluded by the ignorer.
// Files that cannot be read or parsed are logged and skipped; they never
// fail the scan. The resulting Index is immutable.
func (s *Scanner) Scan(ctx context.Context, fsys fs.FS, ignorer *gitignore.GitIgnore) (*Index, error) {
	ix := &Index{byFQN: make(map[string]*symbol.Class)}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || (ignorer != nil && ignorer.MatchesPath(path)) {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".java") {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			s.log.Warn("skipping unreadable source file", "path", path, "error", err)
			return nil
		}

		classes, err := s.extract(ctx, path, content)
		if err != nil {
			s.log.Warn("skipping unparseable source file", "path", path, "error", err)
			return nil
		}
		ix.add(classes)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source tree: %w", err)
	}

	return ix, nil
}

// extract returns the classes of one file, consulting the in-process LRU and
// the persistent store before parsing.
func (s *Scanner) extract(ctx context.Context, path string, content []byte) ([]symbol.Class, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	key := path + "\x00" + hash

	if classes, ok := s.cache.Get(key); ok {
		return classes, nil
	}
	if s.store != nil {
		if classes, ok := s.store.Lookup(ctx, path, hash); ok {
			s.cache.Add(key, classes)
			return classes, nil
		}
	}

	classes, err := javasrc.ExtractClasses(path, content)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, classes)
	if s.store != nil {
		if err := s.store.Save(ctx, path, hash, classes); err != nil {
			s.log.Warn("failed to persist scan record", "path", path, "error", err)
		}
	}
	return classes, nil
}

// Index is the immutable result of a scan. It implements symbol.Lookup and
// symbol.AnnotatedSearch. Iteration order is deterministic: lexical file
// order, then declaration order.
type Index struct {
	classes []*symbol.Class
	byFQN   map[string]*symbol.Class
}

func (ix *Index) add(classes []symbol.Class) {
	for i := range classes {
		c := classes[i]
		ix.classes = append(ix.classes, &c)
		if _, exists := ix.byFQN[c.FQN]; !exists {
			ix.byFQN[c.FQN] = ix.classes[len(ix.classes)-1]
		}
	}
}

// Classes returns every indexed class.
func (ix *Index) Classes() []*symbol.Class {
	return ix.classes
}

// FindClass finds a class by fully qualified name.
func (ix *Index) FindClass(fqn string) (*symbol.Class, bool) {
	c, ok := ix.byFQN[fqn]
	return c, ok
}

// ClassesAnnotatedWith returns the classes carrying the given annotation.
func (ix *Index) ClassesAnnotatedWith(annotationFQN string) []*symbol.Class {
	var out []*symbol.Class
	for _, c := range ix.classes {
		if c.Annotation(annotationFQN) != nil {
			out = append(out, c)
		}
	}
	return out
}
