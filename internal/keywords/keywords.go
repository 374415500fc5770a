// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords scores publication titles against a domain vocabulary.
// The score of a title is the sum, over all keywords, of the number of
// non-overlapping occurrences of the keyword in the lower-cased title.
// Keywords that contain one another are counted independently, so
// "non-rigid" contributes to both "non-rigid" and "rigid".
package keywords

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Default is the image registration / medical imaging / deep learning
// vocabulary used when no keyword file is configured.
var Default = []string{
	"image registration", "deformable", "non-rigid", "shape matching",
	"convolutional", "cnn", "neural", "medical image",
	"learning", "registration", "supervised", "deep",
	"adversarial", "affine",
	"rigid", "diffeomorphism", "spline",
	"deformation", "appearance", "elastic",
	"alignment",
}

// Scorer counts keyword occurrences in titles. It is read-only after
// construction and safe for concurrent use.
type Scorer struct {
	keywords []string
}

// NewScorer returns a Scorer over kw. Keywords are lower-cased and empty
// entries are dropped; order and duplicates are preserved.
func NewScorer(kw []string) *Scorer {
	s := &Scorer{keywords: make([]string, 0, len(kw))}
	for _, k := range kw {
		k = strings.ToLower(k)
		if k == "" {
			continue
		}
		s.keywords = append(s.keywords, k)
	}
	return s
}

// Keywords returns a copy of the normalized keyword list.
func (s *Scorer) Keywords() []string {
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}

// Score returns the total keyword occurrence count for title.
func (s *Scorer) Score(title string) int {
	if title == "" {
		return 0
	}
	title = strings.ToLower(title)
	total := 0
	for _, k := range s.keywords {
		total += strings.Count(title, k)
	}
	return total
}

// File is the on-disk keyword list format:
//
//	keywords:
//	  - registration
//	  - deformable
type File struct {
	Keywords []string `yaml:"keywords"`
}

// LoadFile reads a keyword list from a YAML file. A file without any
// non-empty keyword is an error.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing keyword file %s: %w", path, err)
	}
	var kw []string
	for _, k := range f.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) == 0 {
		return nil, fmt.Errorf("keyword file %s lists no keywords", path)
	}
	return kw, nil
}
