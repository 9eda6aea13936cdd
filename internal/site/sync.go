// Package site implements the content synchronizer: it walks the configured
// category roots, extracts metadata from each source document, and
// regenerates the Jekyll collection pages, tracking state in SQLite so
// unchanged sources are skipped and stale output is pruned.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/starford/jera/internal/checksum"
	"github.com/starford/jera/internal/extract"
	"github.com/starford/jera/internal/page"
	"github.com/starford/jera/internal/render"
	"github.com/starford/jera/internal/state"
	"github.com/starford/jera/internal/storage"
)

// Config holds the synchronizer settings. All paths are relative to the
// workspace root.
type Config struct {
	// Roots maps each category to its source directory.
	Roots map[page.Category]string
	// OutputRoot is the directory the collection directories are written
	// under; empty means the workspace root itself.
	OutputRoot string
	// RepoURL is the base repository URL used for "View on GitHub" links.
	// Empty disables the link block.
	RepoURL string
	// Branch is the branch name used in source links.
	Branch string
	// DefaultDifficulty is used when a source has no difficulty section.
	DefaultDifficulty string
	// Descriptions holds per-category fallback descriptions.
	Descriptions map[page.Category]string
}

// Report summarizes one synchronization run.
type Report struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Pruned  int `json:"pruned"`
}

// EventCallback is called after each page mutation.
// kind is one of "synced" or "pruned".
type EventCallback func(kind string, category page.Category, outputPath string)

// Syncer coordinates storage, extraction, rendering, and the state index.
// Sync passes are serialized: the watcher and API-triggered syncs may overlap.
type Syncer struct {
	store  storage.Provider
	db     state.PageIndex
	cfg    Config
	logger *slog.Logger

	mu sync.Mutex // guards whole-run passes
}

// NewSyncer creates a synchronizer.
func NewSyncer(store storage.Provider, db state.PageIndex, cfg Config, logger *slog.Logger) *Syncer {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.DefaultDifficulty == "" {
		cfg.DefaultDifficulty = "medium"
	}
	return &Syncer{store: store, db: db, cfg: cfg, logger: logger}
}

// sourceRef is one discovered source document.
type sourceRef struct {
	path     string // workspace-relative path of the file
	name     string // output file name inside the collection dir
	checksum string
	folder   string // non-empty for folder pages: the folder name
	language string // non-empty for loose snippet files
	linkPath string // workspace-relative path the source link points at
}

// SyncAll synchronizes every configured category. A missing category root is
// logged and skipped; any other error aborts the run.
func (s *Syncer) SyncAll(ctx context.Context, cb EventCallback) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total Report
	for _, cat := range page.Categories {
		if _, ok := s.cfg.Roots[cat]; !ok {
			continue
		}
		r, err := s.SyncCategory(ctx, cat, cb)
		total.Synced += r.Synced
		total.Skipped += r.Skipped
		total.Pruned += r.Pruned
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SyncCategory synchronizes a single category: extract + render every
// changed source, then prune pages whose source disappeared.
func (s *Syncer) SyncCategory(ctx context.Context, cat page.Category, cb EventCallback) (Report, error) {
	var rep Report

	root, ok := s.cfg.Roots[cat]
	if !ok {
		return rep, fmt.Errorf("site: no root configured for category %q", cat)
	}
	if exists, err := dirExists(s.store, root); err != nil {
		return rep, err
	} else if !exists {
		s.logger.Warn("sync: category root missing, skipping",
			slog.String("category", string(cat)), slog.String("root", root))
		return rep, nil
	}

	sources, err := s.discover(cat, root)
	if err != nil {
		return rep, err
	}

	known, err := s.db.SourceChecksums(string(cat))
	if err != nil {
		return rep, err
	}
	outputs, err := s.db.OutputBySource(string(cat))
	if err != nil {
		return rep, err
	}

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		seen[src.path] = struct{}{}

		outputPath := path.Join(s.cfg.OutputRoot, cat.Collection(), src.name)

		if known[src.path] == src.checksum {
			if present, err := s.store.Exists(outputPath); err == nil && present {
				rep.Skipped++
				continue
			}
		}

		if err := s.syncOne(cat, src, outputPath); err != nil {
			s.logger.Warn("sync: page failed",
				slog.String("source", src.path), slog.String("error", err.Error()))
			continue
		}
		rep.Synced++
		s.logger.Debug("sync: page written",
			slog.String("source", src.path), slog.String("output", outputPath))
		if cb != nil {
			cb("synced", cat, outputPath)
		}
	}

	// Prune pages whose source is gone.
	for srcPath, outputPath := range outputs {
		if _, ok := seen[srcPath]; ok {
			continue
		}
		if err := s.store.Delete(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("sync: prune delete failed",
				slog.String("output", outputPath), slog.String("error", err.Error()))
		}
		if err := s.db.DeletePage(outputPath); err != nil {
			s.logger.Warn("sync: prune state failed",
				slog.String("output", outputPath), slog.String("error", err.Error()))
			continue
		}
		rep.Pruned++
		s.logger.Debug("sync: page pruned", slog.String("output", outputPath))
		if cb != nil {
			cb("pruned", cat, outputPath)
		}
	}

	return rep, nil
}

// discover lists the source documents for a category. Folder entries without
// a README.md are skipped silently.
func (s *Syncer) discover(cat page.Category, root string) ([]sourceRef, error) {
	var out []sourceRef

	dirs, err := s.store.ListDirs(root)
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		readme := path.Join(root, dir, "README.md")
		present, err := s.store.Exists(readme)
		if err != nil || !present {
			continue
		}
		data, err := s.store.Read(readme)
		if err != nil {
			s.logger.Warn("sync: read failed", slog.String("path", readme), slog.String("error", err.Error()))
			continue
		}
		out = append(out, sourceRef{
			path:     readme,
			name:     folderPageName(dir),
			checksum: checksum.Sum(data),
			folder:   dir,
			linkPath: path.Join(root, dir),
		})
	}

	if cat != page.Snippets {
		return out, nil
	}

	// Snippets additionally pick up loose .md and .py files anywhere under
	// the root. README.md files only ever produce folder pages.
	files, err := s.store.List(root, ".md", ".py")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if path.Base(f.Path) == "README.md" {
			continue
		}
		rel := strings.TrimPrefix(f.Path, root+"/")
		out = append(out, sourceRef{
			path:     f.Path,
			name:     loosePageName(rel),
			checksum: f.Checksum,
			language: languageFor(path.Ext(f.Path)),
			linkPath: f.Path,
		})
	}

	return s.dedupeByName(out), nil
}

// dedupeByName keeps one source per output name. Folder pages are listed
// before loose files, so a loose snippet claiming the same name (snippets/foo.md
// next to snippets/foo/README.md) displaces the folder page. Without this, the
// two sources would re-render the same output on every pass.
func (s *Syncer) dedupeByName(sources []sourceRef) []sourceRef {
	byName := make(map[string]int, len(sources))
	out := sources[:0]
	for _, src := range sources {
		if i, dup := byName[src.name]; dup {
			s.logger.Warn("sync: output name collision, later source wins",
				slog.String("dropped", out[i].path), slog.String("kept", src.path))
			out[i] = src
			continue
		}
		byName[src.name] = len(out)
		out = append(out, src)
	}
	return out
}

// syncOne extracts, renders, and writes a single page, then records it in
// the state index.
func (s *Syncer) syncOne(cat page.Category, src sourceRef, outputPath string) error {
	data, err := s.store.Read(src.path)
	if err != nil {
		return err
	}

	meta, body := s.buildPage(cat, src, data)

	doc, err := render.Document(render.FromMeta(meta), body, s.sourceURL(src))
	if err != nil {
		return err
	}
	if err := s.store.Write(outputPath, doc); err != nil {
		return err
	}

	return s.db.UpsertPage(state.PageRow{
		OutputPath:  outputPath,
		Category:    string(cat),
		SourcePath:  src.path,
		Title:       meta.Title,
		Description: meta.Description,
		Checksum:    checksum.Sum(data),
		Tags:        meta.Tags,
		Difficulty:  meta.Difficulty,
		SyncedAt:    time.Now().UTC(),
	}, body)
}

// buildPage derives the page metadata and body for one source document,
// applying the category fallback rules.
func (s *Syncer) buildPage(cat page.Category, src sourceRef, data []byte) (page.Meta, string) {
	var meta page.Meta
	var body string

	if src.language != "" && src.language != "markdown" {
		// Raw snippet file: no markdown structure to mine.
		meta.Language = src.language
		body = render.CodeBody(src.language, data)
	} else {
		res := extract.Parse(data)
		meta.Title = res.Title
		meta.Tags = res.Tags
		meta.Technologies = res.Technologies
		meta.Difficulty = res.Difficulty
		meta.Language = src.language
		body = res.Body

		// Experiments prefer the Overview section for their description.
		if cat == page.Experiments && res.Overview != "" {
			meta.Description = res.Overview
		} else {
			meta.Description = res.Description
		}
	}

	if meta.Title == "" {
		name := src.folder
		if name == "" {
			name = strings.TrimSuffix(path.Base(src.path), path.Ext(src.path))
		}
		meta.Title = humanize(name)
	}
	if meta.Description == "" {
		meta.Description = s.cfg.Descriptions[cat]
	}
	if meta.Difficulty == "" {
		meta.Difficulty = s.cfg.DefaultDifficulty
	}

	return meta, body
}

// sourceURL builds the "View on GitHub" target for a source.
func (s *Syncer) sourceURL(src sourceRef) string {
	if s.cfg.RepoURL == "" {
		return ""
	}
	base := strings.TrimRight(s.cfg.RepoURL, "/")
	if src.folder != "" {
		return base + "/tree/" + s.cfg.Branch + "/" + src.linkPath
	}
	return base + "/blob/" + s.cfg.Branch + "/" + src.linkPath
}

func dirExists(store storage.Provider, dir string) (bool, error) {
	if _, err := store.ListDirs(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
