package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for game, provider, and comment fields.
const (
	maxNameLen        = 200
	maxDescriptionLen = 10_000
	maxURLLen         = 2_000
	maxLabelLen       = 100
	maxLabels         = 20
	maxAuthorLen      = 100
	maxCommentLen     = 2_000
)

// validateGame checks game inputs and returns the first error found.
// Games need at least one category to be reachable in the public catalog.
func validateGame(name, playURL string, categories []string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if msg := validateURL(playURL, "Play URL"); msg != "" {
		return msg
	}
	if len(categories) == 0 {
		return "At least one category is required."
	}
	if len(categories) > maxLabels {
		return "Too many categories (max 20)."
	}
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			return "Categories must not be empty."
		}
		if utf8.RuneCountInString(c) > maxLabelLen {
			return "Category is too long (max 100 characters)."
		}
	}
	return ""
}

// validateProvider checks provider inputs and returns the first error found.
func validateProvider(name, sourceURL string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return validateURL(sourceURL, "Source URL")
}

// validateComment checks comment inputs and returns the first error found.
func validateComment(author, body string) string {
	if strings.TrimSpace(author) == "" {
		return "Author name is required."
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "Author name is too long (max 100 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Comment body is required."
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Comment is too long (max 2,000 characters)."
	}
	return ""
}

// validateURL requires an absolute http(s) URL.
func validateURL(raw, field string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return field + " is required."
	}
	if utf8.RuneCountInString(raw) > maxURLLen {
		return field + " is too long (max 2,000 characters)."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return field + " must be an absolute http(s) URL."
	}
	return ""
}
