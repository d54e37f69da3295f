// Package tmdb asks The Movie DB whether a filename looks like a movie.
// The verdict is a plain boolean: any transport or decode failure is
// returned as an error, and callers treat it as "not a movie" so that a
// flaky lookup can never misfile a series episode into the movie root.
package tmdb

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"copymedia/internal/errors"
	"copymedia/internal/log"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// similarityThreshold is the minimum Sørensen–Dice similarity between
// the cleaned filename title and the best TMDb result title.
const similarityThreshold = 0.70

// Client queries the TMDb search API.
type Client struct {
	apiKey string
	base   string
	http   *resty.Client
}

// New creates a TMDb client with the given API key.
func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		base:   defaultBaseURL,
		http:   resty.New().SetTimeout(15 * time.Second),
	}
}

// SetBaseURL overrides the API endpoint; used by tests.
func (c *Client) SetBaseURL(base string) {
	c.base = base
}

type searchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	MediaType    string `json:"media_type,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
}

type searchResults struct {
	Results    []searchResult `json:"results"`
	TotalPages int            `json:"total_pages"`
}

// IsMovie reports whether filename identifies a movie. The filename is
// cleaned into a title and optional release year, searched on TMDb, and
// the results are ranked by title similarity; the verdict is true when
// the best-scoring result is a movie.
func (c *Client) IsMovie(ctx context.Context, filename string) (bool, error) {
	title, year := CleanTitle(filename)
	if title == "" {
		return false, nil
	}

	params := map[string]string{
		"api_key": c.apiKey,
		"query":   title,
	}
	if year != "" {
		params["year"] = year
	}
	log.Debugf("Searching TMDb for [%s] (year [%s])", title, year)

	var out searchResults
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get(c.base + "/search/multi")
	if err != nil {
		return false, err
	}
	if resp.IsError() {
		return false, errors.Newf("TMDb search failed with status %d", resp.StatusCode())
	}

	best, score := bestMatch(out.Results, title)
	if best == nil || score < similarityThreshold {
		log.Debugf("No TMDb result for [%s] cleared the similarity threshold", title)
		return false, nil
	}

	log.Debugf("Best TMDb match for [%s] is [%s] (%s, score %.2f)",
		title, resultTitle(*best), best.MediaType, score)
	return best.MediaType == "movie", nil
}

// bestMatch ranks results by Sørensen–Dice similarity against the query
// title and returns the winner with its score.
func bestMatch(results []searchResult, query string) (*searchResult, float64) {
	metric := &metrics.SorensenDice{CaseSensitive: false, NgramSize: 2}

	var best *searchResult
	bestScore := -1.0
	for i := range results {
		r := &results[i]
		if r.MediaType != "movie" && r.MediaType != "tv" {
			continue
		}
		score := strutil.Similarity(resultTitle(*r), query, metric)
		if score > bestScore {
			best = r
			bestScore = score
		}
	}
	return best, bestScore
}

func resultTitle(r searchResult) string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

var (
	yearRe    = regexp.MustCompile(`\b(19\d\d|20\d\d)\b`)
	seasonRe  = regexp.MustCompile(`[Ss]\d{1,2}[Ee]\d{1,3}|[Ss](?:eason)?\s*\d{1,2}\b`)
	bracketRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// CleanTitle reduces a release filename to a searchable title and an
// optional release year. Everything after the year is release noise
// (resolution, codec, group) and is discarded.
func CleanTitle(filename string) (title, year string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(name)

	if loc := yearRe.FindStringIndex(name); loc != nil {
		year = name[loc[0]:loc[1]]
		name = name[:loc[0]]
	}
	if loc := seasonRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	name = bracketRe.ReplaceAllString(name, " ")
	name = spaceRe.ReplaceAllString(name, " ")

	return strings.Trim(name, " (["), year
}
