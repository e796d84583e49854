// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/scriptorium/quill/internal/model"
	"github.com/uptrace/bun"
)

// releaseModel is the bun mapping for the release_log table.
type releaseModel struct {
	bun.BaseModel `bun:"table:release_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Action        string `bun:"action"`
	Slug          string `bun:"slug"`
	Details       string `bun:"details"`
}

// knownHostModel is the bun mapping for the known_hosts table.
type knownHostModel struct {
	bun.BaseModel `bun:"table:known_hosts"`
	Hostname      string `bun:"hostname,pk"`
	PublicKey     string `bun:"public_key"`
}

// bunStore implements Store for all supported dialects; the dialect lives
// in the wrapped *bun.DB.
type bunStore struct {
	bun *bun.DB
}

func (s *bunStore) LogRelease(action, slug, details string) error {
	rec := &releaseModel{
		Timestamp: timestamp(),
		Action:    action,
		Slug:      slug,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(rec).
		Column("timestamp", "action", "slug", "details").
		Exec(context.Background())
	return err
}

func (s *bunStore) GetHistory(limit int) ([]model.ReleaseRecord, error) {
	var rows []releaseModel
	q := s.bun.NewSelect().Model(&rows).OrderExpr("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	out := make([]model.ReleaseRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ReleaseRecord{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Action:    r.Action,
			Slug:      r.Slug,
			Details:   r.Details,
		})
	}
	return out, nil
}

// GetKnownHostKey returns the pinned key for a host, or "" when the host
// has never been trusted.
func (s *bunStore) GetKnownHostKey(hostname string) (string, error) {
	var row knownHostModel
	err := s.bun.NewSelect().Model(&row).
		Where("hostname = ?", hostname).
		Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return row.PublicKey, nil
}

// AddKnownHostKey pins (or re-pins) the public key for a host. Check then
// write: portable across all three dialects, and quill is a single-user
// tool with no concurrent writers.
func (s *bunStore) AddKnownHostKey(hostname, publicKey string) error {
	ctx := context.Background()
	existing, err := s.GetKnownHostKey(hostname)
	if err != nil {
		return err
	}
	if existing != "" {
		_, err = s.bun.NewUpdate().Model((*knownHostModel)(nil)).
			Set("public_key = ?", publicKey).
			Where("hostname = ?", hostname).
			Exec(ctx)
		return err
	}
	row := &knownHostModel{Hostname: hostname, PublicKey: publicKey}
	_, err = s.bun.NewInsert().Model(row).Exec(ctx)
	return err
}

func (s *bunStore) GetAllKnownHosts() ([]model.KnownHost, error) {
	var rows []knownHostModel
	err := s.bun.NewSelect().Model(&rows).
		OrderExpr("hostname").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	out := make([]model.KnownHost, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.KnownHost{Hostname: r.Hostname, PublicKey: r.PublicKey})
	}
	return out, nil
}

func (s *bunStore) Close() error {
	return s.bun.Close()
}
