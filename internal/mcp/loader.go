package mcp

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/maypok86/otter"

	"github.com/netlens/netlens/internal/discover"
	"github.com/netlens/netlens/internal/netlist"
	"github.com/netlens/netlens/pkg/metrics"
)

// Design is one cached parsed design with its search index.
type Design struct {
	Path  string
	Model *netlist.Netlist
	Index *ComponentIndex
}

// DesignLoader parses design files on demand, keeps the results in a
// bounded in-memory cache, and invalidates an entry when the design file
// itself changes on disk. Companion files (Cadence .dat files, the sheets
// of a project) are not watched.
type DesignLoader struct {
	loader *discover.Loader
	cache  otter.Cache[string, *Design]

	parses    *metrics.Counter
	cacheHits *metrics.Counter
	// Queries counts trace tool invocations; the handlers increment it.
	Queries *metrics.Counter

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	watched map[string]string // watched file → cache key
}

// NewDesignLoader builds a loader with the given cache capacity. Counters
// register in reg when it is non-nil.
func NewDesignLoader(ignorePatterns []string, capacity int, reg *metrics.Registry) (*DesignLoader, error) {
	fileLoader, err := discover.NewLoader(ignorePatterns)
	if err != nil {
		return nil, err
	}
	cache, err := otter.MustBuilder[string, *Design](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create design cache: %w", err)
	}
	if reg == nil {
		reg = metrics.New()
	}

	dl := &DesignLoader{
		loader:    fileLoader,
		cache:     cache,
		parses:    reg.Counter("netlens_design_parses_total", "Design files parsed"),
		cacheHits: reg.Counter("netlens_design_cache_hits_total", "Design cache hits"),
		Queries:   reg.Counter("netlens_trace_queries_total", "Trace queries served"),
		watched:   make(map[string]string),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// The loader still works without invalidation; stale entries
		// just live until evicted.
		log.Printf("design file watcher unavailable: %v", err)
	} else {
		dl.watcher = watcher
		go dl.watchLoop()
	}
	return dl, nil
}

// Load returns the cached design for path, parsing it on a miss.
func (dl *DesignLoader) Load(path string) (*Design, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve design path: %w", err)
	}
	if design, ok := dl.cache.Get(abs); ok {
		dl.cacheHits.Inc()
		return design, nil
	}

	model, err := dl.loader.Load(abs)
	if err != nil {
		return nil, err
	}
	dl.parses.Inc()
	index, err := NewComponentIndex(model)
	if err != nil {
		return nil, fmt.Errorf("failed to index components: %w", err)
	}
	design := &Design{Path: abs, Model: model, Index: index}
	dl.cache.Set(abs, design)
	dl.watch(abs)
	return design, nil
}

// watch registers the design file for change invalidation.
func (dl *DesignLoader) watch(path string) {
	if dl.watcher == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if _, ok := dl.watched[path]; ok {
		return
	}
	if err := dl.watcher.Add(path); err != nil {
		log.Printf("failed to watch %s: %v", path, err)
		return
	}
	dl.watched[path] = path
}

// watchLoop drops cache entries whose files changed.
func (dl *DesignLoader) watchLoop() {
	for {
		select {
		case event, ok := <-dl.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}
			dl.mu.Lock()
			key, watched := dl.watched[event.Name]
			dl.mu.Unlock()
			if watched {
				log.Printf("design %s changed on disk, invalidating cache", event.Name)
				dl.cache.Delete(key)
			}
		case err, ok := <-dl.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("design watcher error: %v", err)
		}
	}
}

// Close releases the watcher and the cache.
func (dl *DesignLoader) Close() error {
	dl.cache.Close()
	if dl.watcher != nil {
		return dl.watcher.Close()
	}
	return nil
}
