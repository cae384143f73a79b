package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientFetchMonetize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"title":"Bubble Pop","description":"Pop.","thumb":"https://cdn.example.com/b.png","url":"https://g.example.com/b","category":"Puzzle","tags":"bubbles,casual"},
			{"title":"Turbo Drift","url":"https://g.example.com/t","category":"Racing","tags":""}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "http://unused.invalid")
	records, err := client.FetchMonetize(context.Background())
	if err != nil {
		t.Fatalf("FetchMonetize: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Title != "Bubble Pop" || records[0].Tags != "bubbles,casual" {
		t.Errorf("first record = %+v", records[0])
	}
}

func TestClientFetchDistribution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"Maze Run","thumbnailUrl":"https://cdn.example.com/m.png","url":"https://g.example.com/m","categories":["Arcade","Action"]}]`))
	}))
	defer srv.Close()

	client := NewClient("http://unused.invalid", srv.URL)
	records, err := client.FetchDistribution(context.Background())
	if err != nil {
		t.Fatalf("FetchDistribution: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if len(records[0].Categories) != 2 {
		t.Errorf("categories = %v", records[0].Categories)
	}
}

func TestClientFetchTranslates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"Maze Run","url":"https://g.example.com/m","categories":["Arcade"]}]`))
	}))
	defer srv.Close()

	client := NewClient("http://unused.invalid", srv.URL)
	drafts, err := client.Fetch(context.Background(), SourceDistribution)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Name != "Maze Run" || !drafts[0].IsActive {
		t.Fatalf("drafts = %+v", drafts)
	}
}

func TestClientFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	if _, err := client.FetchMonetize(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestClientFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	if _, err := client.FetchMonetize(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClientFetchUnknownSource(t *testing.T) {
	client := NewClient("http://a.invalid", "http://b.invalid")
	if _, err := client.Fetch(context.Background(), Source("rss")); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
