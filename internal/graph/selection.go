package graph

import (
	"fmt"
	"strings"
	"unicode"
)

// Field is one requested field and, for object-valued fields, its
// sub-selection.
type Field struct {
	Name     string
	Children Selection
}

type Selection []Field

// ParseSelection reads a brace-delimited field list such as
//
//	id content author { id username } likes { user { username } }
//
// Commas are treated as whitespace. An empty string yields an empty
// selection, which selects the default scalar fields.
func ParseSelection(src string) (Selection, error) {
	p := &selectionParser{tokens: tokenize(src)}
	sel, err := p.parseList(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidSelection, p.tokens[p.pos])
	}
	return sel, nil
}

type selectionParser struct {
	tokens []string
	pos    int
}

func (p *selectionParser) parseList(depth int) (Selection, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidSelection, maxDepth)
	}
	var sel Selection
	seen := make(map[string]bool)
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok {
		case "}":
			if depth == 0 {
				return nil, fmt.Errorf("%w: unbalanced '}'", ErrInvalidSelection)
			}
			return sel, nil
		case "{":
			return nil, fmt.Errorf("%w: '{' must follow a field name", ErrInvalidSelection)
		}
		if !isName(tok) {
			return nil, fmt.Errorf("%w: invalid field name %q", ErrInvalidSelection, tok)
		}
		p.pos++

		field := Field{Name: tok}
		if p.pos < len(p.tokens) && p.tokens[p.pos] == "{" {
			p.pos++
			children, err := p.parseList(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.tokens) || p.tokens[p.pos] != "}" {
				return nil, fmt.Errorf("%w: missing '}' after %q", ErrInvalidSelection, tok)
			}
			p.pos++
			field.Children = children
		}
		if seen[field.Name] {
			continue
		}
		seen[field.Name] = true
		sel = append(sel, field)
	}
	if depth > 0 {
		return nil, fmt.Errorf("%w: unexpected end of selection", ErrInvalidSelection)
	}
	return sel, nil
}

func tokenize(src string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '{' || r == '}':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r) || r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isName(tok string) bool {
	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return tok != ""
}
