// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-stats/internal/httputil"
	"github.com/pdiddy/scholar-stats/pkg/types"
)

// openAlexAPIBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org"

const (
	openAlexIDPrefix    = "https://openalex.org/"
	openAlexWorksPerReq = 200
	openAlexWorkFields  = "title,publication_year"
)

// OpenAlexBackend finds authors through the OpenAlex authors and works APIs.
type OpenAlexBackend struct {
	Client *httputil.Client
	// Email is sent as mailto parameter for polite pool access.
	Email           string
	PageSize        int
	MaxPublications int
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return string(types.SourceOpenAlex) }

// Search pages through /authors?search= by page number.
func (b *OpenAlexBackend) Search(ctx context.Context, name string) iter.Seq2[types.ShallowProfile, error] {
	return paginate(ctx, func(ctx context.Context, page int) ([]types.ShallowProfile, bool, error) {
		params := url.Values{
			"search":   {name},
			"per_page": {strconv.Itoa(b.PageSize)},
			"page":     {strconv.Itoa(page + 1)},
		}
		b.addMailto(params)
		reqURL := openAlexAPIBase + "/authors?" + params.Encode()

		var resp openAlexAuthorList
		if err := b.Client.GetJSONCached(ctx, reqURL, &resp); err != nil {
			return nil, false, fmt.Errorf("OpenAlex author search: %w", err)
		}

		profiles := make([]types.ShallowProfile, 0, len(resp.Results))
		for _, a := range resp.Results {
			profiles = append(profiles, types.ShallowProfile{
				ID:          shortOpenAlexID(a.ID),
				Name:        a.DisplayName,
				Source:      b.Name(),
				Affiliation: a.institution(),
			})
		}
		more := (page+1)*b.PageSize < resp.Meta.Count
		return profiles, more, nil
	})
}

// Fill fetches the author record for statistics and then pages through the
// author's works with cursor pagination, up to MaxPublications titles.
func (b *OpenAlexBackend) Fill(ctx context.Context, p types.ShallowProfile) (types.FilledProfile, error) {
	id := shortOpenAlexID(p.ID)
	if id == "" {
		return types.FilledProfile{}, fmt.Errorf("OpenAlex author has no id")
	}

	params := url.Values{}
	b.addMailto(params)
	reqURL := openAlexAPIBase + "/authors/" + url.PathEscape(id)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var a openAlexAuthor
	if err := b.Client.GetJSON(ctx, reqURL, &a); err != nil {
		return types.FilledProfile{}, fmt.Errorf("OpenAlex author details: %w", err)
	}

	pubs, err := b.works(ctx, id)
	if err != nil {
		return types.FilledProfile{}, err
	}

	fp := types.FilledProfile{
		ID:           id,
		Name:         a.DisplayName,
		Source:       b.Name(),
		Affiliation:  a.institution(),
		CitedBy:      a.CitedByCount,
		HIndex:       a.SummaryStats.HIndex,
		PaperCount:   a.WorksCount,
		Publications: pubs,
	}
	if fp.Name == "" {
		fp.Name = p.Name
	}
	return fp, nil
}

func (b *OpenAlexBackend) works(ctx context.Context, authorID string) ([]types.Publication, error) {
	perPage := openAlexWorksPerReq
	if b.MaxPublications > 0 && b.MaxPublications < perPage {
		perPage = b.MaxPublications
	}

	var pubs []types.Publication
	cursor := "*"
	for cursor != "" {
		params := url.Values{
			"filter":   {"author.id:" + authorID},
			"select":   {openAlexWorkFields},
			"per_page": {strconv.Itoa(perPage)},
			"cursor":   {cursor},
		}
		b.addMailto(params)
		reqURL := openAlexAPIBase + "/works?" + params.Encode()

		var resp openAlexWorkList
		if err := b.Client.GetJSON(ctx, reqURL, &resp); err != nil {
			return nil, fmt.Errorf("OpenAlex works: %w", err)
		}
		for _, w := range resp.Results {
			pubs = append(pubs, types.Publication{Title: w.Title, Year: w.PublicationYear})
		}
		if len(resp.Results) == 0 || (b.MaxPublications > 0 && len(pubs) >= b.MaxPublications) {
			break
		}
		cursor = resp.Meta.NextCursor
	}
	return truncatePublications(pubs, b.MaxPublications), nil
}

func (b *OpenAlexBackend) addMailto(params url.Values) {
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}
}

// shortOpenAlexID strips the https://openalex.org/ prefix ("A5023888391").
func shortOpenAlexID(id string) string {
	return strings.TrimPrefix(id, openAlexIDPrefix)
}

// OpenAlex API JSON structures.
type openAlexMeta struct {
	Count      int    `json:"count"`
	PerPage    int    `json:"per_page"`
	Page       int    `json:"page"`
	NextCursor string `json:"next_cursor"`
}

type openAlexAuthorList struct {
	Meta    openAlexMeta     `json:"meta"`
	Results []openAlexAuthor `json:"results"`
}

type openAlexAuthor struct {
	ID                    string                `json:"id"`
	DisplayName           string                `json:"display_name"`
	WorksCount            int                   `json:"works_count"`
	CitedByCount          int                   `json:"cited_by_count"`
	SummaryStats          openAlexSummaryStats  `json:"summary_stats"`
	LastKnownInstitutions []openAlexInstitution `json:"last_known_institutions"`
}

func (a openAlexAuthor) institution() string {
	if len(a.LastKnownInstitutions) == 0 {
		return ""
	}
	return a.LastKnownInstitutions[0].DisplayName
}

type openAlexSummaryStats struct {
	HIndex int `json:"h_index"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
}

type openAlexWorkList struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
}
