// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the interactive post browser. This file defines the
// shared lipgloss styles so the views keep a consistent look.
package tui // import "github.com/scriptorium/quill/internal/tui"

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors used in the browser.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // A nice teal/cyan
	colorDraft     = lipgloss.Color("208") // Orange for unreleased work
	colorSuccess   = lipgloss.Color("40")  // Green for published posts
	colorWhite     = lipgloss.Color("231")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	itemStyle         = lipgloss.NewStyle()
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	draftBadgeStyle     = lipgloss.NewStyle().Foreground(colorDraft)
	publishedBadgeStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	statusMessageStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(colorWhite).
				Background(colorHighlight)
)
