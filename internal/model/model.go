// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package model holds the plain data structures shared between the content
// store, the database layer and the UI. It has no dependencies on either.
package model // import "github.com/scriptorium/quill/internal/model"

import "fmt"

// Post is one blog post on disk, draft or published.
type Post struct {
	Slug      string
	Title     string
	Date      string
	Published bool
	Path      string
}

// String returns the slug with its lifecycle state, e.g. "my-post (draft)".
func (p Post) String() string {
	state := "draft"
	if p.Published {
		state = "published"
	}
	return fmt.Sprintf("%s (%s)", p.Slug, state)
}

// ReleaseRecord is one row of the release log.
type ReleaseRecord struct {
	ID        int
	Timestamp string
	Action    string
	Slug      string
	Details   string
}

// KnownHost pins the SSH public key presented by a sync target.
type KnownHost struct {
	Hostname  string
	PublicKey string
}

// BackupData is the envelope for a full backup of the quill database.
type BackupData struct {
	Version    int             `json:"version"`
	Releases   []ReleaseRecord `json:"releases"`
	KnownHosts []KnownHost     `json:"known_hosts"`
}
