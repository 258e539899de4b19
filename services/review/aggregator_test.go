package review_test

import (
	"math"
	"testing"
	"time"

	"beautybook/models"
	"beautybook/services/review"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestSummarize_Empty(t *testing.T) {
	s := review.Summarize(nil)
	if s.Total != 0 || s.Average != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if len(s.Distribution) != 5 {
		t.Fatalf("expected 5 distribution entries, got %d", len(s.Distribution))
	}
	for _, sc := range s.Distribution {
		if sc.Count != 0 || sc.Percentage != 0 {
			t.Fatalf("star %d: expected zeros, got %+v", sc.Rating, sc)
		}
	}
}

func TestSummarize_Distribution(t *testing.T) {
	s := review.Summarize([]models.Review{{Rating: 5}, {Rating: 5}, {Rating: 1}})
	if s.Average != 11.0/3.0 {
		t.Fatalf("average = %v, want 11/3", s.Average)
	}
	if five := s.Star(5); five.Count != 2 || !approx(five.Percentage, 66.67) {
		t.Fatalf("5 stars = %+v", five)
	}
	if one := s.Star(1); one.Count != 1 || !approx(one.Percentage, 33.33) {
		t.Fatalf("1 star = %+v", one)
	}
	if three := s.Star(3); three.Count != 0 || three.Percentage != 0 {
		t.Fatalf("3 stars = %+v", three)
	}
	for i, sc := range s.Distribution {
		if sc.Rating != 5-i {
			t.Fatalf("distribution out of order at %d: %+v", i, s.Distribution)
		}
	}
}

func ids(reviews []models.Review) string {
	out := ""
	for _, r := range reviews {
		out += r.ID
	}
	return out
}

func TestSort_PoliciesAreStable(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	in := []models.Review{
		{ID: "a", Rating: 4, CreatedAt: t0},
		{ID: "b", Rating: 5, CreatedAt: t1},
		{ID: "c", Rating: 4, CreatedAt: t1},
		{ID: "d", Rating: 2, CreatedAt: t0},
	}

	cases := []struct {
		policy review.SortPolicy
		want   string
	}{
		{review.SortNewest, "bcad"},
		{review.SortOldest, "adbc"},
		{review.SortHighest, "bacd"},
		{review.SortLowest, "dacb"},
	}
	for _, tc := range cases {
		if got := ids(review.Sort(in, tc.policy)); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.policy, got, tc.want)
		}
	}
	if ids(in) != "abcd" {
		t.Fatalf("input was reordered: %s", ids(in))
	}
}

func TestParseSortPolicy(t *testing.T) {
	if p, err := review.ParseSortPolicy(""); err != nil || p != review.SortNewest {
		t.Fatalf("empty: %v %v", p, err)
	}
	if p, err := review.ParseSortPolicy("Highest"); err != nil || p != review.SortHighest {
		t.Fatalf("Highest: %v %v", p, err)
	}
	if _, err := review.ParseSortPolicy("random"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestRatingLabel(t *testing.T) {
	want := map[int]string{0: "", 1: "Poor", 2: "Fair", 3: "Good", 4: "Very Good", 5: "Excellent", 6: ""}
	for rating, label := range want {
		if got := review.RatingLabel(rating); got != label {
			t.Fatalf("RatingLabel(%d) = %q, want %q", rating, got, label)
		}
	}
}
