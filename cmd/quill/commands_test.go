// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/scriptorium/quill/internal/model"
	"github.com/spf13/cobra"
)

func findSubcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// TestRootCmdWiring verifies every subcommand is registered with help text.
func TestRootCmdWiring(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"new", "release", "posts", "history", "sync", "trust-host", "backup"} {
		sub := findSubcommand(cmd, name)
		if sub == nil {
			t.Fatalf("%s command not found", name)
		}
		if sub.Short == "" {
			t.Errorf("%s command missing short help", name)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "db-type", "db-dsn", "lang", "verbose"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

// TestBackupRoundTrip writes a compressed backup and reads it back.
func TestBackupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json.zst")

	data := &model.BackupData{
		Version: 1,
		Releases: []model.ReleaseRecord{
			{ID: 1, Timestamp: "2026-08-25T10:00:00Z", Action: "POST_RELEASED", Slug: "first-post"},
		},
		KnownHosts: []model.KnownHost{
			{Hostname: "blog.example.org", PublicKey: "ssh-ed25519 AAAA"},
		},
	}
	if err := writeCompressedBackup(path, data); err != nil {
		t.Fatalf("write backup: %v", err)
	}

	got, err := readCompressedBackup(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("version mismatch: %d", got.Version)
	}
	if len(got.Releases) != 1 || got.Releases[0].Slug != "first-post" {
		t.Errorf("releases not preserved: %v", got.Releases)
	}
	if len(got.KnownHosts) != 1 || got.KnownHosts[0].Hostname != "blog.example.org" {
		t.Errorf("known hosts not preserved: %v", got.KnownHosts)
	}
}
