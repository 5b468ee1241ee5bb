// Package constellation computes the transient lines drawn between a
// hovered star and every other star in its category.
package constellation

import "github.com/frankfika/thanksgiving/internal/star"

// Link joins the hovered star to one related star by id. Positions are
// looked up every frame so the line follows both stars while they drift.
type Link struct {
	SourceID string
	TargetID string
	Color    string // hovered star's sentiment color
}

// Build returns links from hovered to every star sharing its category,
// in the order stars are given. It keeps no state between calls.
func Build(hovered star.Record, stars []star.Record) []Link {
	var links []Link
	for _, s := range stars {
		if s.ID == hovered.ID || s.Category() != hovered.Category() {
			continue
		}
		links = append(links, Link{
			SourceID: hovered.ID,
			TargetID: s.ID,
			Color:    hovered.Reading.SentimentColor,
		})
	}
	return links
}
