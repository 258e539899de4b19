package review

import (
	"fmt"
	"slices"
	"strings"

	"beautybook/models"
)

// SortPolicy selects the ordering used by Sort.
type SortPolicy string

const (
	SortNewest  SortPolicy = "newest"
	SortOldest  SortPolicy = "oldest"
	SortHighest SortPolicy = "highest"
	SortLowest  SortPolicy = "lowest"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ratingLabels = [...]string{"", "Poor", "Fair", "Good", "Very Good", "Excellent"}

// ParseSortPolicy accepts the policy names case-insensitively. An empty
// string selects SortNewest.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch p := SortPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortHighest, SortLowest:
		return p, nil
	}
	return "", fmt.Errorf("unknown sort policy %q", s)
}

// RatingLabel returns the display label for a star value, or "" when the
// value is out of range.
func RatingLabel(rating int) string {
	if rating < MinRating || rating > MaxRating {
		return ""
	}
	return ratingLabels[rating]
}

// Summarize computes the average rating and the per-star distribution,
// ordered 5 stars down to 1. An empty input yields a zero summary.
func Summarize(reviews []models.Review) models.RatingSummary {
	counts := make(map[int]int, MaxRating)
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		counts[r.Rating]++
	}

	total := len(reviews)
	summary := models.RatingSummary{
		Total:        total,
		Distribution: make([]models.StarCount, 0, MaxRating),
	}
	if total > 0 {
		summary.Average = float64(sum) / float64(total)
	}
	for star := MaxRating; star >= MinRating; star-- {
		sc := models.StarCount{Rating: star, Count: counts[star]}
		if total > 0 {
			sc.Percentage = float64(sc.Count) / float64(total) * 100
		}
		summary.Distribution = append(summary.Distribution, sc)
	}
	return summary
}

// Sort returns a copy of reviews ordered by policy. Reviews that compare
// equal keep their input order. An unknown policy returns the copy unchanged.
func Sort(reviews []models.Review, policy SortPolicy) []models.Review {
	out := slices.Clone(reviews)
	cmp := comparator(policy)
	if cmp == nil {
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(policy SortPolicy) func(a, b models.Review) int {
	switch policy {
	case SortNewest:
		return func(a, b models.Review) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		return func(a, b models.Review) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortHighest:
		return func(a, b models.Review) int { return b.Rating - a.Rating }
	case SortLowest:
		return func(a, b models.Review) int { return a.Rating - b.Rating }
	}
	return nil
}
