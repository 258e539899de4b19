package review_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"beautybook/models"
	"beautybook/services/review"
)

type memRepo struct {
	mu      sync.Mutex
	reviews []models.Review
	fail    error
}

func (m *memRepo) ListByProfessional(ctx context.Context, professionalID string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Review
	for _, r := range m.reviews {
		if r.ProfessionalID == professionalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, r *models.Review) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *r)
	return nil
}

type ratingRecorder struct {
	rating float64
	count  int
	calls  int
}

func (r *ratingRecorder) UpdateProfessionalRating(ctx context.Context, professionalID string, rating float64, reviewCount int) error {
	r.rating, r.count = rating, reviewCount
	r.calls++
	return nil
}

func TestSubmit_StoresAndRefreshesRating(t *testing.T) {
	repo := &memRepo{reviews: []models.Review{{ID: "old", ProfessionalID: "prof_1", Rating: 4}}}
	rec := &ratingRecorder{}
	svc := review.NewReviewService(repo, rec, nil)

	r, err := svc.Submit(context.Background(), review.SubmitRequest{
		BookingID:      "booking_1",
		ProfessionalID: "prof_1",
		CustomerID:     "cust_1",
		Rating:         5,
		Comment:        "  Lovely work  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() || r.Comment != "Lovely work" {
		t.Fatalf("unexpected review %+v", r)
	}
	if rec.calls != 1 || rec.count != 2 || rec.rating != 4.5 {
		t.Fatalf("rating refresh = %+v", rec)
	}
}

func TestSubmit_RejectsInvalidInput(t *testing.T) {
	svc := review.NewReviewService(&memRepo{}, nil, nil)
	cases := []review.SubmitRequest{
		{ProfessionalID: "p", CustomerID: "c", Rating: 0},
		{ProfessionalID: "p", CustomerID: "c", Rating: 6},
		{ProfessionalID: "p", CustomerID: "c", Rating: 3, Comment: strings.Repeat("x", review.MaxCommentLength+1)},
		{CustomerID: "c", Rating: 3},
	}
	for _, req := range cases {
		if _, err := svc.Submit(context.Background(), req); !errors.Is(err, review.ErrInvalidReview) {
			t.Fatalf("%+v: expected ErrInvalidReview, got %v", req, err)
		}
	}
}

func TestSubmit_CommentAtLimitAccepted(t *testing.T) {
	svc := review.NewReviewService(&memRepo{}, nil, nil)
	_, err := svc.Submit(context.Background(), review.SubmitRequest{
		ProfessionalID: "p", CustomerID: "c", Rating: 3,
		Comment: strings.Repeat("é", review.MaxCommentLength),
	})
	if err != nil {
		t.Fatalf("expected 500 character comment to pass: %v", err)
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	svc := review.NewReviewService(&memRepo{fail: errors.New("db down")}, nil, nil)
	_, err := svc.Submit(context.Background(), review.SubmitRequest{ProfessionalID: "p", CustomerID: "c", Rating: 3})
	if err == nil || errors.Is(err, review.ErrInvalidReview) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestListAndSummary(t *testing.T) {
	repo := &memRepo{reviews: []models.Review{
		{ID: "1", ProfessionalID: "prof_1", Rating: 2},
		{ID: "2", ProfessionalID: "prof_1", Rating: 5},
		{ID: "3", ProfessionalID: "prof_2", Rating: 1},
	}}
	svc := review.NewReviewService(repo, nil, nil)

	list, err := svc.List(context.Background(), "prof_1", review.SortHighest)
	if err != nil || len(list) != 2 || list[0].ID != "2" {
		t.Fatalf("list = %+v, %v", list, err)
	}
	s, err := svc.Summary(context.Background(), "prof_1")
	if err != nil || s.Total != 2 || s.Average != 3.5 {
		t.Fatalf("summary = %+v, %v", s, err)
	}
}
