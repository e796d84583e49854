// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

const fmDelimiter = "---"

// FrontMatter is the YAML metadata block at the top of a post.
type FrontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date,omitempty"`
	Draft bool     `yaml:"draft"`
	Tags  []string `yaml:"tags,omitempty"`
}

// SplitFrontMatter separates the front matter block from the post body.
// A post without a front matter fence yields a zero FrontMatter and the
// unchanged text; malformed YAML inside the fence is an error.
func SplitFrontMatter(text string) (FrontMatter, string, error) {
	var fm FrontMatter
	rest, ok := strings.CutPrefix(text, fmDelimiter+"\n")
	if !ok {
		return fm, text, nil
	}
	block, body, ok := strings.Cut(rest, "\n"+fmDelimiter+"\n")
	if !ok {
		// Opening fence without a closing one.
		return fm, "", fmt.Errorf("unterminated front matter block")
	}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, "", fmt.Errorf("invalid front matter: %w", err)
	}
	return fm, body, nil
}

// Render serializes the front matter back above the body.
func (fm FrontMatter) Render(body string) (string, error) {
	out, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return fmDelimiter + "\n" + string(out) + fmDelimiter + "\n" + body, nil
}
