package embed

import (
	"fmt"
	"strconv"
	"strings"
)

/* Embed is the structured block attached to a message.
 * Value semantics: it represents data, not behavior.
 * All attributes are optional on the wire; an embed with nothing
 * populated is represented as nil, never as an empty object.
 */

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Author      *Author `json:"author,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Thumbnail   *Media  `json:"thumbnail,omitempty"`
	Image       *Media  `json:"image,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

type Author struct {
	Name string `json:"name"`
}

type Footer struct {
	Text string `json:"text"`
}

type Media struct {
	URL string `json:"url"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// FormFields is the raw builder input before assembly.
// Color is a "#RRGGBB" hex string, empty when unset.
type FormFields struct {
	Title       string
	Description string
	Color       string
	Author      string
	Footer      string
	Thumbnail   string
	Image       string
	Fields      []Field
}

// Assemble builds the canonical embed from form input, dropping every
// empty optional attribute and every field missing a name or a value.
// It returns nil when nothing survives, which callers must translate
// into omitting the embeds array entirely.
func Assemble(f FormFields) (*Embed, error) {
	e := Embed{
		Title:       f.Title,
		Description: f.Description,
	}
	populated := f.Title != "" || f.Description != ""

	if f.Color != "" {
		color, err := ParseColor(f.Color)
		if err != nil {
			return nil, fmt.Errorf("parsing embed color: %w", err)
		}
		e.Color = color
		populated = true
	}
	if f.Author != "" {
		e.Author = &Author{Name: f.Author}
		populated = true
	}
	if f.Footer != "" {
		e.Footer = &Footer{Text: f.Footer}
		populated = true
	}
	if f.Thumbnail != "" {
		e.Thumbnail = &Media{URL: f.Thumbnail}
		populated = true
	}
	if f.Image != "" {
		e.Image = &Media{URL: f.Image}
		populated = true
	}

	for _, field := range f.Fields {
		if field.Name == "" || field.Value == "" {
			continue
		}
		e.Fields = append(e.Fields, field)
	}
	if len(e.Fields) > 0 {
		populated = true
	}

	if !populated {
		return nil, nil
	}
	return &e, nil
}

// ParseColor parses a "#RRGGBB" hex string into an integer 0..16777215.
func ParseColor(s string) (int, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color must be #RRGGBB, got %q", s)
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color must be #RRGGBB, got %q", s)
	}
	return int(v), nil
}
