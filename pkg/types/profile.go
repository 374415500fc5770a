// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for scholar-stats.
//
// An author profile exists in two states. ShallowProfile is what a name
// search returns: identity and display name only. FilledProfile is produced
// by an explicit detail fetch and carries publications and citation
// statistics. The states are separate types so that unfetched fields can not
// be read off a search result by accident.
package types

// ShallowProfile is an author candidate as returned by a name search.
type ShallowProfile struct {
	// ID is the service-assigned author identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the display name reported by the service.
	Name string `json:"name" yaml:"name"`

	// Source identifies the backend that produced the profile (e.g. "semantic_scholar").
	Source string `json:"source" yaml:"source"`

	// Affiliation is the first listed affiliation, if the search returns one.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// FilledProfile is an author profile after a detail fetch.
type FilledProfile struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Source      string `json:"source" yaml:"source"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// CitedBy is the total citation count across the author's works.
	CitedBy int `json:"citedby" yaml:"citedby"`

	// HIndex is the author's h-index as computed by the service.
	HIndex int `json:"hindex" yaml:"hindex"`

	// PaperCount is the number of works the service attributes to the author.
	// It can exceed len(Publications) when the publication list is capped.
	PaperCount int `json:"paper_count" yaml:"paper_count"`

	// Publications lists the author's works in service order.
	Publications []Publication `json:"publications" yaml:"publications"`
}

// Publication is a single work belonging to a profile.
type Publication struct {
	Title string `json:"title" yaml:"title"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty"`
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}
