package handlers

import (
	"strings"
	"testing"
)

func TestValidateGame(t *testing.T) {
	manyCategories := make([]string, 21)
	for i := range manyCategories {
		manyCategories[i] = "C"
	}

	tests := []struct {
		name       string
		gameName   string
		playURL    string
		categories []string
		wantOK     bool
	}{
		{"valid", "Snake", "https://g.example.com/snake", []string{"Arcade"}, true},
		{"empty name", "", "https://g.example.com/snake", []string{"Arcade"}, false},
		{"whitespace name", "   ", "https://g.example.com/snake", []string{"Arcade"}, false},
		{"name too long", strings.Repeat("a", 201), "https://g.example.com/snake", []string{"Arcade"}, false},
		{"missing url", "Snake", "", []string{"Arcade"}, false},
		{"relative url", "Snake", "/snake", []string{"Arcade"}, false},
		{"ftp url", "Snake", "ftp://g.example.com/snake", []string{"Arcade"}, false},
		{"no categories", "Snake", "https://g.example.com/snake", nil, false},
		{"blank category", "Snake", "https://g.example.com/snake", []string{" "}, false},
		{"too many categories", "Snake", "https://g.example.com/snake", manyCategories, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateGame(tt.gameName, tt.playURL, tt.categories)
			if (msg == "") != tt.wantOK {
				t.Errorf("validateGame() = %q, wantOK %v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerName string
		sourceURL    string
		wantOK       bool
	}{
		{"valid", "Feed Co", "https://feeds.example.com/games.json", true},
		{"empty name", "", "https://feeds.example.com/games.json", false},
		{"missing url", "Feed Co", "", false},
		{"schemeless url", "Feed Co", "feeds.example.com/games.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateProvider(tt.providerName, tt.sourceURL)
			if (msg == "") != tt.wantOK {
				t.Errorf("validateProvider() = %q, wantOK %v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name   string
		author string
		body   string
		wantOK bool
	}{
		{"valid", "Visitor", "Nice game", true},
		{"empty author", "", "Nice game", false},
		{"empty body", "Visitor", "", false},
		{"whitespace body", "Visitor", "   ", false},
		{"author too long", strings.Repeat("a", 101), "Nice game", false},
		{"body too long", "Visitor", strings.Repeat("a", 2001), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateComment(tt.author, tt.body)
			if (msg == "") != tt.wantOK {
				t.Errorf("validateComment() = %q, wantOK %v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"https", "https://example.com/a", true},
		{"http", "http://example.com/a", true},
		{"empty", "", false},
		{"no scheme", "example.com/a", false},
		{"no host", "https://", false},
		{"javascript", "javascript:alert(1)", false},
		{"too long", "https://example.com/" + strings.Repeat("a", 2000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateURL(tt.raw, "URL")
			if (msg == "") != tt.wantOK {
				t.Errorf("validateURL(%q) = %q, wantOK %v", tt.raw, msg, tt.wantOK)
			}
		})
	}
}
