package enrich

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/h0157/supply-chain-risk-dashboard/internal/datasource/httpds"
)

// stubScorer returns canned polarities keyed by text.
type stubScorer struct{ scores map[string]float64 }

func (s stubScorer) Polarity(text string) float64 { return s.scores[text] }

func TestNewsRisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		polarity, want float64
	}{
		{-1, 1.0},
		{1, 0.0},
		{0, 0.5},
		{0.5, 0.25},
	}
	for _, tc := range tests {
		if got := NewsRisk(tc.polarity); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NewsRisk(%v) = %v, want %v", tc.polarity, got, tc.want)
		}
	}
}

func TestNewsSourceFetchAveragesPolarity(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageSize") != "3" {
			t.Errorf("pageSize = %q, want 3", r.URL.Query().Get("pageSize"))
		}
		if r.URL.Query().Get("language") != "en" {
			t.Errorf("language = %q, want en", r.URL.Query().Get("language"))
		}
		fmt.Fprint(w, `{"articles": [
			{"title": "good", "description": "news"},
			{"title": "bad", "description": "news"}
		]}`)
	}))
	defer srv.Close()

	scorer := stubScorer{scores: map[string]float64{
		"good news": 0.8,
		"bad news":  -0.4,
	}}
	src := &NewsSource{Client: httpds.NewClient(httpds.Config{}), BaseURL: srv.URL, APIKey: "k", Scorer: scorer}
	res := src.Fetch(context.Background(), "Germany")

	if res.Fallback {
		t.Fatalf("unexpected fallback: %+v", res)
	}
	sentiment, _ := res.Record.Fields["news_sentiment"].(float64)
	risk, _ := res.Record.Fields["news_risk"].(float64)
	if math.Abs(sentiment-0.2) > 1e-9 {
		t.Fatalf("news_sentiment = %v, want 0.2", sentiment)
	}
	if math.Abs(risk-0.4) > 1e-9 {
		t.Fatalf("news_risk = %v, want 0.4", risk)
	}
}

func TestNewsSourceZeroArticles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"articles": []}`)
	}))
	defer srv.Close()

	src := &NewsSource{Client: httpds.NewClient(httpds.Config{}), BaseURL: srv.URL, APIKey: "k", Scorer: stubScorer{}}
	res := src.Fetch(context.Background(), "Ruritania")

	// Quiet news is not a fallback.
	if res.Fallback || res.Err != nil {
		t.Fatalf("expected non-fallback neutral, got %+v", res)
	}
	if res.Record.Fields["news_sentiment"] != 0.0 || res.Record.Fields["news_risk"] != 0.5 {
		t.Fatalf("fields = %#v", res.Record.Fields)
	}
}

func TestNewsSourceFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	src := &NewsSource{Client: httpds.NewClient(httpds.Config{}), BaseURL: srv.URL, APIKey: "k", Scorer: stubScorer{}}
	res := src.Fetch(context.Background(), "Ruritania")

	if !res.Fallback || res.Err == nil {
		t.Fatalf("expected fallback with cause, got %+v", res)
	}
	if res.Record.Fields["news_sentiment"] != 0.0 || res.Record.Fields["news_risk"] != 0.5 {
		t.Fatalf("fallback fields = %#v", res.Record.Fields)
	}
}

func TestVaderScorerRange(t *testing.T) {
	t.Parallel()

	s := NewVaderScorer()
	for _, text := range []string{
		"A wonderful, excellent day for trade",
		"Catastrophic floods destroy supply routes",
		"neutral statement",
	} {
		p := s.Polarity(text)
		if p < -1 || p > 1 {
			t.Fatalf("Polarity(%q) = %v, outside [-1, 1]", text, p)
		}
	}
}
