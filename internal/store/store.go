// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package store is the filesystem content store: post templates, drafts in
// progress, and published posts. All posts are Markdown files with a YAML
// front matter block.
package store // import "github.com/scriptorium/quill/internal/store"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scriptorium/quill/internal/logging"
	"github.com/scriptorium/quill/internal/model"
)

// ErrDraftExists is returned when a new draft would overwrite an existing one.
var ErrDraftExists = errors.New("store: draft already exists")

// ErrNotFound is returned for templates or drafts that do not exist.
var ErrNotFound = errors.New("store: no such file")

// Store reads and writes posts below three sibling directories.
type Store struct {
	TemplatesDir string
	DraftsDir    string
	PublishedDir string
}

// New returns a store over the given directories. Call EnsureDirs before
// writing through it.
func New(templatesDir, draftsDir, publishedDir string) *Store {
	return &Store{
		TemplatesDir: templatesDir,
		DraftsDir:    draftsDir,
		PublishedDir: publishedDir,
	}
}

// EnsureDirs creates the draft and published directories if missing. The
// templates directory is the user's to manage.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.DraftsDir, s.PublishedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	return nil
}

// listMarkdown returns the sorted .md file names directly below dir.
func listMarkdown(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ListTemplates returns the available template file names, sorted.
func (s *Store) ListTemplates() ([]string, error) {
	return listMarkdown(s.TemplatesDir)
}

// ListDrafts returns the draft file names, sorted.
func (s *Store) ListDrafts() ([]string, error) {
	return listMarkdown(s.DraftsDir)
}

// ListPublished returns the published file names, sorted.
func (s *Store) ListPublished() ([]string, error) {
	return listMarkdown(s.PublishedDir)
}

// ReadTemplate returns the raw text of the named template.
func (s *Store) ReadTemplate(name string) (string, error) {
	return readPost(filepath.Join(s.TemplatesDir, name))
}

// ReadDraft returns the raw text of the named draft.
func (s *Store) ReadDraft(name string) (string, error) {
	return readPost(filepath.Join(s.DraftsDir, name))
}

func readPost(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("store: read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteDraft creates a new draft. Refuses to overwrite an existing one.
func (s *Store) WriteDraft(name, content string) error {
	path := filepath.Join(s.DraftsDir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDraftExists, name)
		}
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	logging.Debugf("store: wrote draft %s (%d bytes)", path, len(content))
	return nil
}

// MoveDraftToPublished releases a draft: the front matter gets the release
// date stamped and the draft flag cleared, then the file moves to the
// published directory. Returns the published path.
func (s *Store) MoveDraftToPublished(name string, now time.Time) (string, error) {
	draftPath := filepath.Join(s.DraftsDir, name)
	text, err := readPost(draftPath)
	if err != nil {
		return "", err
	}

	fm, body, err := SplitFrontMatter(text)
	if err != nil {
		return "", fmt.Errorf("store: %s: %w", name, err)
	}
	fm.Date = now.Format("2006-01-02")
	fm.Draft = false
	stamped, err := fm.Render(body)
	if err != nil {
		return "", fmt.Errorf("store: %s: %w", name, err)
	}

	if err := os.WriteFile(draftPath, []byte(stamped), 0o644); err != nil {
		return "", fmt.Errorf("store: stamp %s: %w", draftPath, err)
	}

	publishedPath := filepath.Join(s.PublishedDir, name)
	if err := os.Rename(draftPath, publishedPath); err != nil {
		return "", fmt.Errorf("store: move %s: %w", draftPath, err)
	}
	logging.Debugf("store: released %s -> %s", name, publishedPath)
	return publishedPath, nil
}

// Posts returns every draft and published post with its front matter
// summarized, drafts first.
func (s *Store) Posts() ([]model.Post, error) {
	var posts []model.Post
	for _, set := range []struct {
		dir       string
		published bool
	}{
		{s.DraftsDir, false},
		{s.PublishedDir, true},
	} {
		names, err := listMarkdown(set.dir)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			path := filepath.Join(set.dir, name)
			post := model.Post{
				Slug:      strings.TrimSuffix(name, ".md"),
				Published: set.published,
				Path:      path,
			}
			if text, err := readPost(path); err == nil {
				if fm, _, err := SplitFrontMatter(text); err == nil {
					post.Title = fm.Title
					post.Date = fm.Date
				}
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// ApplyReplacements substitutes {{key}} placeholders in text.
func ApplyReplacements(text string, mapping map[string]string) string {
	pairs := make([]string, 0, len(mapping)*2)
	for key, value := range mapping {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Slugify derives a file-safe slug from a post title: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Humanize turns a template file name into a menu label, e.g.
// "post-with-images.md" -> "Post with images".
func Humanize(name string) string {
	name = strings.TrimSuffix(name, ".md")
	words := strings.Split(strings.ReplaceAll(name, "_", "-"), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
