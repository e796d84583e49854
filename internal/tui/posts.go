// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/scriptorium/quill/internal/i18n"
	"github.com/scriptorium/quill/internal/model"
)

// postsModel is the interactive browser over drafts and published posts.
type postsModel struct {
	posts []model.Post

	// State
	visible     []model.Post
	cursor      int
	filter      textinput.Model
	isFiltering bool
	status      string
}

func newPostsModel(posts []model.Post) postsModel {
	ti := textinput.New()
	ti.Prompt = "/"
	m := postsModel{posts: posts, filter: ti}
	m.rebuild()
	return m
}

// rebuild recomputes the visible slice from the current filter.
func (m *postsModel) rebuild() {
	if m.filter.Value() == "" {
		m.visible = m.posts
	} else {
		m.visible = nil
		needle := strings.ToLower(m.filter.Value())
		for _, p := range m.posts {
			if strings.Contains(strings.ToLower(p.Title), needle) ||
				strings.Contains(strings.ToLower(p.Slug), needle) {
				m.visible = append(m.visible, p)
			}
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

func (m postsModel) Init() tea.Cmd {
	return nil
}

func (m postsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.filter.SetValue("")
				m.filter.Blur()
				m.rebuild()
			case tea.KeyEnter:
				m.isFiltering = false
				m.filter.Blur()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.rebuild()
				return m, cmd
			}
			return m, nil
		}

		m.status = ""
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "/":
			m.isFiltering = true
			m.filter.SetValue("")
			return m, m.filter.Focus()
		case "c":
			if m.cursor < len(m.visible) {
				p := m.visible[m.cursor]
				if err := clipboard.WriteAll(p.Path); err == nil {
					m.status = i18n.T("posts.copied", p.Path)
				}
			}
		}
	}
	return m, nil
}

func (m postsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(i18n.T("posts.title")))
	b.WriteString("\n\n")

	for i, p := range m.visible {
		badge := draftBadgeStyle.Render("draft    ")
		if p.Published {
			badge = publishedBadgeStyle.Render("published")
		}
		line := fmt.Sprintf("%s  %s  %s", badge, p.Date, p.Title)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("  " + i18n.T("posts.empty")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.isFiltering {
		b.WriteString(m.filter.View())
	} else if m.status != "" {
		b.WriteString(statusMessageStyle.Render(m.status))
	} else {
		b.WriteString(helpStyle.Render(i18n.T("posts.help")))
	}

	return docStyle.Render(b.String())
}

// Browse runs the post browser until the user quits.
func Browse(posts []model.Post) error {
	p := tea.NewProgram(newPostsModel(posts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
