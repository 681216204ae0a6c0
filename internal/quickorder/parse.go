// Package quickorder turns shorthand cart text typed on a waiter device into
// order lines, e.g.
//
//	2x pasta
//	ribeye - medium rare
//	cola x3
package quickorder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmpty is returned when the text holds no usable line.
var ErrEmpty = errors.New("no items found")

// maxQuantity caps a single shorthand line.
const maxQuantity = 99

// Line is a single parsed shorthand line.
type Line struct {
	Raw         string `json:"raw"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

// Parsed is the result of parsing a shorthand cart.
type Parsed struct {
	Lines    []Line
	Warnings []string // Lines that failed to parse
}

// Parse reads one item per line. Blank lines are skipped; lines that cannot
// be read are reported as warnings.
func Parse(text string) (*Parsed, error) {
	var out Parsed
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		line, err := parseLine(raw)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("skipped %q: %v", raw, err))
			continue
		}
		out.Lines = append(out.Lines, line)
	}
	if len(out.Lines) == 0 {
		return nil, ErrEmpty
	}
	return &out, nil
}

// parseLine reads "[qty[x]] description [xqty] [- notes | (notes)]".
func parseLine(raw string) (Line, error) {
	body, notes := splitNotes(raw)

	tokens := strings.Fields(body)
	qty := 0
	var desc []string
	for i, tok := range tokens {
		// Quantity may lead or trail the description, never sit inside it.
		if i == 0 || i == len(tokens)-1 {
			if q, ok := parseQuantity(tok); ok && qty == 0 {
				qty = q
				continue
			}
		}
		desc = append(desc, tok)
	}

	if len(desc) == 0 {
		return Line{}, errors.New("no item name")
	}
	if qty == 0 {
		qty = 1
	}
	if qty > maxQuantity {
		return Line{}, fmt.Errorf("quantity above %d", maxQuantity)
	}
	return Line{
		Raw:         raw,
		Description: strings.Join(desc, " "),
		Quantity:    qty,
		Notes:       notes,
	}, nil
}

// splitNotes separates a trailing "- notes" or "(notes)".
func splitNotes(s string) (body, notes string) {
	if i := strings.Index(s, " - "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+3:])
	}
	if open := strings.IndexByte(s, '('); open >= 0 && strings.HasSuffix(s, ")") {
		return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : len(s)-1])
	}
	return s, ""
}

// parseQuantity accepts "2", "2x" and "x2".
func parseQuantity(tok string) (int, bool) {
	tok = strings.ToLower(tok)
	switch {
	case strings.HasPrefix(tok, "x"):
		tok = tok[1:]
	case strings.HasSuffix(tok, "x"):
		tok = tok[:len(tok)-1]
	}
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
