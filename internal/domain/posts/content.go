package posts

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxImageBytes        = 5 << 20
)

var strict = bluemonday.StrictPolicy()

// Content is the user-editable part of a post. The image is set once at
// creation and never changes.
type Content struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Normalize strips markup and surrounding whitespace. The result is plain
// text: entities produced by the sanitizer are decoded again so "Tom & Jerry"
// is stored as typed and length limits count characters, not escapes.
// Clients must escape it when rendering HTML.
func (c Content) Normalize() Content {
	return Content{
		Title:       plainText(c.Title),
		Description: plainText(c.Description),
	}
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func (c Content) Validate() error {
	switch {
	case c.Title == "":
		return ErrTitleRequired
	case c.Description == "":
		return ErrDescriptionRequired
	case utf8.RuneCountInString(c.Title) > MaxTitleLength:
		return ErrTitleTooLong
	case utf8.RuneCountInString(c.Description) > MaxDescriptionLength:
		return ErrDescriptionTooLong
	}
	return nil
}
