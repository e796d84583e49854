// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/scriptorium/quill/internal/model"
)

func samplePosts() []model.Post {
	return []model.Post{
		{Slug: "empty-post", Title: "Empty post", Date: "", Published: false, Path: "drafts/empty-post.md"},
		{Slug: "go-tips", Title: "Go tips", Date: "2026-08-01", Published: true, Path: "published/go-tips.md"},
		{Slug: "raw-terminals", Title: "Raw terminals", Date: "2026-08-20", Published: true, Path: "published/raw-terminals.md"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCursorMovement(t *testing.T) {
	m := newPostsModel(samplePosts())

	if m.cursor != 0 {
		t.Fatalf("cursor should start at 0, got %d", m.cursor)
	}

	next, _ := m.Update(keyMsg("j"))
	m = next.(postsModel)
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1 after j, got %d", m.cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(postsModel)
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0 after k, got %d", m.cursor)
	}

	// Cursor never leaves the list.
	next, _ = m.Update(keyMsg("k"))
	m = next.(postsModel)
	if m.cursor != 0 {
		t.Fatalf("cursor moved above the first item: %d", m.cursor)
	}
}

func TestFilterNarrowsList(t *testing.T) {
	m := newPostsModel(samplePosts())

	next, _ := m.Update(keyMsg("/"))
	m = next.(postsModel)
	if !m.isFiltering {
		t.Fatal("expected filtering mode after /")
	}

	for _, r := range "tips" {
		next, _ = m.Update(keyMsg(string(r)))
		m = next.(postsModel)
	}
	if len(m.visible) != 1 || m.visible[0].Slug != "go-tips" {
		t.Fatalf("unexpected filter result: %v", m.visible)
	}

	// Esc clears the filter.
	next, _ = m.Update(keyMsg("esc"))
	m = next.(postsModel)
	if m.isFiltering || len(m.visible) != 3 {
		t.Fatalf("filter not cleared: filtering=%v visible=%d", m.isFiltering, len(m.visible))
	}
}

func TestViewShowsTitlesAndStatus(t *testing.T) {
	i18n.Init("en")
	m := newPostsModel(samplePosts())
	view := m.View()

	for _, want := range []string{"Empty post", "Go tips", "draft", "published"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m := newPostsModel(samplePosts())
	for _, k := range []string{"q", "esc"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Errorf("expected quit command for %q", k)
		}
	}
}
