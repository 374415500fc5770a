// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/pdiddy/scholar-stats/internal/httputil"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	semanticSearchFields = "name,affiliations"
	semanticFillFields   = "name,affiliations,citationCount,hIndex,paperCount,papers.title,papers.year,papers.venue"
)

// SemanticScholarBackend finds authors through the Semantic Scholar author API.
// An API key, if any, is carried as a default header on Client.
type SemanticScholarBackend struct {
	Client          *httputil.Client
	PageSize        int
	MaxPublications int
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return string(types.SourceSemanticScholar) }

// Search pages through /author/search by offset.
func (b *SemanticScholarBackend) Search(ctx context.Context, name string) iter.Seq2[types.ShallowProfile, error] {
	return paginate(ctx, func(ctx context.Context, page int) ([]types.ShallowProfile, bool, error) {
		params := url.Values{
			"query":  {name},
			"offset": {strconv.Itoa(page * b.PageSize)},
			"limit":  {strconv.Itoa(b.PageSize)},
			"fields": {semanticSearchFields},
		}
		reqURL := semanticAPIBase + "/author/search?" + params.Encode()

		var sr semanticAuthorSearch
		if err := b.Client.GetJSONCached(ctx, reqURL, &sr); err != nil {
			return nil, false, fmt.Errorf("Semantic Scholar author search: %w", err)
		}

		profiles := make([]types.ShallowProfile, 0, len(sr.Data))
		for _, a := range sr.Data {
			profiles = append(profiles, types.ShallowProfile{
				ID:          a.AuthorID,
				Name:        a.Name,
				Source:      b.Name(),
				Affiliation: first(a.Affiliations),
			})
		}
		return profiles, sr.Next != nil, nil
	})
}

// Fill fetches the author record with citation statistics and paper titles.
func (b *SemanticScholarBackend) Fill(ctx context.Context, p types.ShallowProfile) (types.FilledProfile, error) {
	if p.ID == "" {
		return types.FilledProfile{}, fmt.Errorf("Semantic Scholar author has no id")
	}
	reqURL := semanticAPIBase + "/author/" + url.PathEscape(p.ID) + "?" +
		url.Values{"fields": {semanticFillFields}}.Encode()

	var a semanticAuthor
	if err := b.Client.GetJSON(ctx, reqURL, &a); err != nil {
		return types.FilledProfile{}, fmt.Errorf("Semantic Scholar author details: %w", err)
	}

	fp := types.FilledProfile{
		ID:          a.AuthorID,
		Name:        a.Name,
		Source:      b.Name(),
		Affiliation: first(a.Affiliations),
		CitedBy:     a.CitationCount,
		HIndex:      a.HIndex,
		PaperCount:  a.PaperCount,
	}
	if fp.ID == "" {
		fp.ID = p.ID
	}
	if fp.Name == "" {
		fp.Name = p.Name
	}
	for _, paper := range a.Papers {
		fp.Publications = append(fp.Publications, types.Publication{
			Title: paper.Title,
			Year:  paper.Year,
			Venue: paper.Venue,
		})
	}
	fp.Publications = truncatePublications(fp.Publications, b.MaxPublications)
	return fp, nil
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Semantic Scholar API JSON structures.
type semanticAuthorSearch struct {
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Next   *int             `json:"next"`
	Data   []semanticAuthor `json:"data"`
}

type semanticAuthor struct {
	AuthorID      string          `json:"authorId"`
	Name          string          `json:"name"`
	Affiliations  []string        `json:"affiliations"`
	CitationCount int             `json:"citationCount"`
	HIndex        int             `json:"hIndex"`
	PaperCount    int             `json:"paperCount"`
	Papers        []semanticPaper `json:"papers"`
}

type semanticPaper struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Venue   string `json:"venue"`
}
