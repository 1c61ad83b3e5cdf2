package search

import (
	"sort"
	"strings"
	"time"

	"turf-hire/internal/domain/job"
)

const maxRelevance = 10

// Relevance scores variant hits: title 3, location 1, description 1,
// requirements 1. Capped at maxRelevance.
func Relevance(l job.Listing, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}

	title := strings.ToLower(l.Title)
	location := strings.ToLower(l.Location)
	desc := strings.ToLower(l.Description)
	reqs := strings.ToLower(strings.Join(l.Requirements, " "))

	score := 0.0
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if strings.Contains(title, v) {
			score += 3
		}
		if strings.Contains(location, v) {
			score++
		}
		if strings.Contains(desc, v) {
			score++
		}
		if strings.Contains(reqs, v) {
			score++
		}
		if score >= maxRelevance {
			return maxRelevance
		}
	}
	return score
}

// Freshness favours listings posted within the last month.
func Freshness(l job.Listing, now time.Time) float64 {
	if l.CreatedAt.IsZero() {
		return 0
	}
	age := now.Sub(l.CreatedAt)
	if age < 0 {
		age = 0
	}

	day := 24 * time.Hour
	switch {
	case age <= day:
		return 5
	case age <= 3*day:
		return 4
	case age <= 7*day:
		return 3
	case age <= 14*day:
		return 2
	case age <= 30*day:
		return 1
	}
	return 0
}

// Rank keeps listings that match at least one variant, best first. Ties keep
// input order.
func Rank(listings []job.Listing, q Query, now time.Time) []job.Listing {
	if q.Normalized == "" {
		return listings
	}

	type scored struct {
		idx   int
		score float64
	}
	hits := make([]scored, 0, len(listings))
	for i := range listings {
		rel := Relevance(listings[i], q.Variants)
		if rel == 0 {
			continue
		}
		hits = append(hits, scored{idx: i, score: rel*2.0 + Freshness(listings[i], now)*1.5})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]job.Listing, 0, len(hits))
	for _, h := range hits {
		out = append(out, listings[h.idx])
	}
	return out
}
