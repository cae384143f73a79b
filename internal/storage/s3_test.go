package storage

import "testing"

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "assets", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil client when storage is unconfigured")
	}
}

func TestFileURL(t *testing.T) {
	t.Run("path-style without public URL", func(t *testing.T) {
		c, err := New("https://s3.example.com/", "us-east-1", "key", "secret", "assets", "")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := c.FileURL("favicon/site.ico")
		want := "https://s3.example.com/assets/favicon/site.ico"
		if got != want {
			t.Errorf("FileURL = %q, want %q", got, want)
		}
	})

	t.Run("public URL takes precedence", func(t *testing.T) {
		c, err := New("https://s3.example.com", "us-east-1", "key", "secret", "assets", "https://cdn.example.com/")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := c.FileURL("favicon/site.ico")
		want := "https://cdn.example.com/favicon/site.ico"
		if got != want {
			t.Errorf("FileURL = %q, want %q", got, want)
		}
	})
}

func TestExtractKey(t *testing.T) {
	c, err := New("https://s3.example.com", "us-east-1", "key", "secret", "assets", "https://cdn.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		url    string
		key    string
		wantOK bool
	}{
		{"https://cdn.example.com/favicon/site.ico", "favicon/site.ico", true},
		{"https://s3.example.com/assets/favicon/site.ico", "favicon/site.ico", true},
		{"https://elsewhere.example.com/favicon.ico", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		key, ok := c.ExtractKey(tt.url)
		if ok != tt.wantOK || key != tt.key {
			t.Errorf("ExtractKey(%q) = (%q, %v), want (%q, %v)", tt.url, key, ok, tt.key, tt.wantOK)
		}
	}
}
