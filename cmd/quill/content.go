// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// content.go holds the drafting workflow: creating a draft from a template
// and releasing a finished draft into the published directory.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scriptorium/quill/internal/db"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/scriptorium/quill/internal/menu"
	"github.com/scriptorium/quill/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newCmd represents the 'new' command.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new draft from a template",
	Long: `Picks a template, asks for a title, and writes a fresh draft with the
title, date and author substituted into the template's placeholders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew()
	},
}

// releaseCmd represents the 'release' command.
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release a draft",
	Long: `Picks a draft, stamps its front matter with today's date, clears the
draft flag, and moves it to the published directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease()
	},
}

// runNew drives the draft creation workflow.
func runNew() error {
	s := newStore()
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	templates, err := s.ListTemplates()
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fmt.Errorf("%s", i18n.T("new.error_no_templates", s.TemplatesDir))
	}

	labels := make([]string, len(templates))
	for i, name := range templates {
		labels[i] = store.Humanize(name)
	}

	fmt.Println(i18n.T("new.choose_template"))
	choice, err := menu.Select(labels)
	if err != nil {
		return err
	}

	title, err := promptLine(i18n.T("new.title_prompt"))
	if err != nil {
		return err
	}
	if title == "" {
		return errors.New(i18n.T("new.error_empty_title"))
	}

	text, err := s.ReadTemplate(templates[choice])
	if err != nil {
		return fmt.Errorf("%s", i18n.T("new.error_read_template", err))
	}

	text = store.ApplyReplacements(text, map[string]string{
		"title":  title,
		"date":   time.Now().Format("2006-01-02"),
		"author": viper.GetString("author"),
	})

	name := store.Slugify(title) + ".md"
	if err := s.WriteDraft(name, text); err != nil {
		return fmt.Errorf("%s", i18n.T("new.error_write_draft", err))
	}

	_ = db.LogRelease("DRAFT_CREATED", store.Slugify(title), "template: "+templates[choice])
	fmt.Println(i18n.T("new.created", name))
	return nil
}

// runRelease drives the release workflow.
func runRelease() error {
	s := newStore()
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	drafts, err := s.ListDrafts()
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("%s", i18n.T("release.error_no_drafts", s.DraftsDir))
	}

	fmt.Println(i18n.T("release.choose_draft"))
	choice, err := menu.Select(drafts)
	if err != nil {
		return err
	}

	name := drafts[choice]
	publishedPath, err := s.MoveDraftToPublished(name, time.Now())
	if err != nil {
		return fmt.Errorf("%s", i18n.T("release.error_move", err))
	}

	_ = db.LogRelease("POST_RELEASED", strings.TrimSuffix(name, ".md"), "path: "+publishedPath)
	fmt.Println(i18n.T("release.released", name, publishedPath))
	return nil
}

// promptLine displays a prompt and reads a trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
