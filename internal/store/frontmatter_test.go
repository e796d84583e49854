// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"strings"
	"testing"
)

func TestSplitFrontMatter(t *testing.T) {
	text := "---\ntitle: A Post\ndate: 2026-02-03\ndraft: true\ntags:\n  - go\n  - tui\n---\n\nHello.\n"
	fm, body, err := SplitFrontMatter(text)
	if err != nil {
		t.Fatal(err)
	}
	if fm.Title != "A Post" || fm.Date != "2026-02-03" || !fm.Draft {
		t.Fatalf("unexpected front matter: %+v", fm)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "go" {
		t.Fatalf("tags not parsed: %v", fm.Tags)
	}
	if body != "\nHello.\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	fm, body, err := SplitFrontMatter("just a body\n")
	if err != nil {
		t.Fatal(err)
	}
	if fm.Title != "" || body != "just a body\n" {
		t.Fatalf("plain text mangled: %+v %q", fm, body)
	}
}

func TestSplitFrontMatterUnterminated(t *testing.T) {
	if _, _, err := SplitFrontMatter("---\ntitle: x\n"); err == nil {
		t.Fatal("expected error for unterminated block")
	}
}

func TestSplitFrontMatterInvalidYAML(t *testing.T) {
	if _, _, err := SplitFrontMatter("---\n[not yaml\n---\nbody"); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	fm := FrontMatter{Title: "Round Trip", Date: "2026-05-06", Draft: false, Tags: []string{"a"}}
	text, err := fm.Render("\nBody.\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(text, "---\n") {
		t.Fatalf("missing opening fence: %q", text)
	}
	got, body, err := SplitFrontMatter(text)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != fm.Title || got.Date != fm.Date || got.Draft != fm.Draft {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, fm)
	}
	if body != "\nBody.\n" {
		t.Fatalf("body mismatch: %q", body)
	}
}
