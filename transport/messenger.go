// Package transport sends outbound messages to customers.
package transport

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxButtons        = 3
	MaxListRows       = 10
	MaxButtonTitleLen = 20
	MaxRowTitleLen    = 24
	MaxRowDescLen     = 72
	MaxSectionTitle   = 24
)

// Button is a quick-reply button
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Row is one selectable entry in a list message
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Section groups list rows under a heading
type Section struct {
	Title string `json:"title,omitempty"`
	Rows  []Row  `json:"rows"`
}

// Messenger is the outbound side of the chat transport
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	SendList(ctx context.Context, to, body, buttonLabel string, sections []Section) error
	SendImage(ctx context.Context, to, imageURL, caption string) error
	RequestLocation(ctx context.Context, to, body string) error
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// ClampButtons keeps the first MaxButtons buttons and trims their titles
func ClampButtons(buttons []Button) []Button {
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}
	out := make([]Button, len(buttons))
	for i, b := range buttons {
		out[i] = Button{ID: b.ID, Title: Truncate(b.Title, MaxButtonTitleLen)}
	}
	return out
}

// ClampSections keeps at most MaxListRows rows across all sections and trims
// titles and descriptions. Empty sections are dropped.
func ClampSections(sections []Section) []Section {
	budget := MaxListRows
	var out []Section
	for _, sec := range sections {
		if budget == 0 {
			break
		}
		rows := sec.Rows
		if len(rows) > budget {
			rows = rows[:budget]
		}
		if len(rows) == 0 {
			continue
		}
		clamped := Section{Title: Truncate(sec.Title, MaxSectionTitle), Rows: make([]Row, len(rows))}
		for i, r := range rows {
			clamped.Rows[i] = Row{
				ID:          r.ID,
				Title:       Truncate(r.Title, MaxRowTitleLen),
				Description: Truncate(r.Description, MaxRowDescLen),
			}
		}
		budget -= len(rows)
		out = append(out, clamped)
	}
	return out
}

// ListAsText renders a list message as plain numbered text for transports
// that cannot show interactive lists
func ListAsText(body string, sections []Section) string {
	var b strings.Builder
	b.WriteString(body)
	n := 1
	for _, sec := range sections {
		if sec.Title != "" {
			fmt.Fprintf(&b, "\n\n*%s*", sec.Title)
		}
		for _, r := range sec.Rows {
			fmt.Fprintf(&b, "\n%d. %s", n, r.Title)
			if r.Description != "" {
				fmt.Fprintf(&b, " (%s)", r.Description)
			}
			n++
		}
	}
	return b.String()
}

// ButtonsAsText renders buttons as plain text options
func ButtonsAsText(body string, buttons []Button) string {
	var b strings.Builder
	b.WriteString(body)
	for i, btn := range buttons {
		fmt.Fprintf(&b, "\n%d. %s", i+1, btn.Title)
	}
	return b.String()
}
