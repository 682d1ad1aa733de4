package enrich

import (
	"context"
	"net/url"
	"strconv"

	"github.com/h0157/supply-chain-risk-dashboard/internal/datasource/httpds"
	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// newsRiskNeutral is used both when a fetch fails and when no articles exist
// for a key, so the risk field is always present for the downstream join.
const newsRiskNeutral = 0.5

// defaultPageSize bounds how many headlines are scored per key.
const defaultPageSize = 3

// Scorer computes a sentiment polarity in [-1, 1] for a piece of text.
type Scorer interface {
	Polarity(text string) float64
}

// NewsSource fetches recent headlines per country from a newsapi.org-shaped
// endpoint, scores their sentiment, and maps the average polarity to a risk
// score: risk = 1 − ((polarity + 1) / 2), so uniformly negative news yields
// risk 1.0 and uniformly positive news yields 0.0.
type NewsSource struct {
	Client  *httpds.Client
	BaseURL string // e.g. "https://newsapi.org/v2/top-headlines"
	APIKey  string
	Scorer  Scorer

	// PageSize caps the number of articles fetched per key; 3 when zero.
	PageSize int
}

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

func (s *NewsSource) Name() string { return "news" }

func (s *NewsSource) Fields() []string {
	return []string{"news_sentiment", "news_risk"}
}

// Fetch retrieves and scores headlines for the given country. A fetch or
// parse failure yields the neutral fallback {sentiment 0.0, risk 0.5} with
// Fallback set; an empty article list yields the same values but is not a
// fallback, it is simply quiet news.
func (s *NewsSource) Fetch(ctx context.Context, key string) Result {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var resp newsResponse
	err := s.Client.GetJSON(ctx, s.BaseURL, url.Values{
		"apiKey":   {s.APIKey},
		"q":        {key},
		"language": {"en"},
		"pageSize": {strconv.Itoa(pageSize)},
	}, &resp)
	if err != nil {
		return Result{
			Record:   EnrichmentRecord{Key: key, Fields: neutralNewsFields()},
			Fallback: true,
			Err:      err,
		}
	}

	if len(resp.Articles) == 0 {
		return Result{Record: EnrichmentRecord{Key: key, Fields: neutralNewsFields()}}
	}

	var sum float64
	for _, a := range resp.Articles {
		sum += s.Scorer.Polarity(a.Title + " " + a.Description)
	}
	avg := sum / float64(len(resp.Articles))

	return Result{Record: EnrichmentRecord{Key: key, Fields: records.Record{
		"news_sentiment": avg,
		"news_risk":      NewsRisk(avg),
	}}}
}

// NewsRisk maps an average polarity in [-1, 1] onto a risk in [0, 1]:
// polarity −1 → risk 1.0, polarity +1 → risk 0.0.
func NewsRisk(avgPolarity float64) float64 {
	return 1 - ((avgPolarity + 1) / 2)
}

func neutralNewsFields() records.Record {
	return records.Record{
		"news_sentiment": 0.0,
		"news_risk":      newsRiskNeutral,
	}
}
