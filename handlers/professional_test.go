package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"beautybook/config"
	"beautybook/handlers"
	"beautybook/models"
	"beautybook/routes"
	"beautybook/services/booking"
	"beautybook/services/dashboard"
	"beautybook/services/profile"
	"beautybook/services/review"
	"beautybook/utils"

	"github.com/gin-gonic/gin"
)

type memReviews struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (m *memReviews) ListByProfessional(ctx context.Context, professionalID string) ([]models.Review, error) {
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

func (m *memReviews) Create(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *r)
	return nil
}

type stubDashboard struct{ gotID string }

func (s *stubDashboard) Overview(ctx context.Context, professionalID string, rng dashboard.TimeRange) (*dashboard.Overview, error) {
	s.gotID = professionalID
	return &dashboard.Overview{ProfessionalID: professionalID, Range: rng}, nil
}

func newProfessionalRouter(t *testing.T) (*gin.Engine, *booking.StaticCatalog, *stubDashboard) {
	t.Helper()
	config.AppConfig.JWTSecret = "handler-test-secret"
	catalog := booking.NewStaticCatalog()
	dash := &stubDashboard{}
	hb := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(nil),
		handlers.NewReviewHandler(review.NewReviewService(&memReviews{}, catalog, nil)),
		handlers.NewDashboardHandler(dash),
		handlers.NewProfileHandler(profile.NewShareService("https://beautybook.test/", catalog, nil, nil)),
	)
	r := gin.New()
	routes.RegisterProfessionalRoutes(r, hb)
	routes.RegisterDashboardRoutes(r, hb)
	return r, catalog, dash
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := utils.GenerateToken(subject, "customer", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func call(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReviewAPI_SubmitRefreshesRating(t *testing.T) {
	r, catalog, _ := newProfessionalRouter(t)

	if w := call(r, http.MethodPost, "/api/professionals/prof_1/reviews", "", `{"rating":5}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous submit: status %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/api/professionals/prof_1/reviews", bearer(t, "cust_1"), `{"rating":6}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rating 6: status %d", w.Code)
	}

	w := call(r, http.MethodPost, "/api/professionals/prof_1/reviews", bearer(t, "cust_1"), `{"rating":4,"comment":"  Lovely  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Review models.Review `json:"review"`
		Label  string        `json:"label"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Label != "Very Good" || created.Review.CustomerID != "cust_1" || created.Review.Comment != "Lovely" {
		t.Fatalf("created = %+v", created)
	}
	call(r, http.MethodPost, "/api/professionals/prof_1/reviews", bearer(t, "cust_2"), `{"rating":2}`)

	p, _ := catalog.GetProfessional(context.Background(), "prof_1")
	if p.Rating != 3 || p.ReviewCount != 2 {
		t.Fatalf("professional rating = %v count = %d", p.Rating, p.ReviewCount)
	}

	var list struct {
		Reviews []models.Review `json:"reviews"`
	}
	w = call(r, http.MethodGet, "/api/professionals/prof_1/reviews?sort=lowest", "", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Reviews) != 2 || list.Reviews[0].Rating != 2 {
		t.Fatalf("list = %+v, %v", list, err)
	}
	if w := call(r, http.MethodGet, "/api/professionals/prof_1/reviews?sort=random", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad sort: status %d", w.Code)
	}

	var summary models.RatingSummary
	w = call(r, http.MethodGet, "/api/professionals/prof_1/reviews/summary", "", "")
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil || summary.Total != 2 || summary.Average != 3 {
		t.Fatalf("summary = %+v, %v", summary, err)
	}
}

func TestDashboardAPI_UsesTokenSubject(t *testing.T) {
	r, _, dash := newProfessionalRouter(t)
	if w := call(r, http.MethodGet, "/api/dashboard", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/api/dashboard?range=decade", bearer(t, "prof_1"), ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad range: status %d", w.Code)
	}
	w := call(r, http.MethodGet, "/api/dashboard?range=month", bearer(t, "prof_1"), "")
	if w.Code != http.StatusOK || dash.gotID != "prof_1" {
		t.Fatalf("status %d id %q", w.Code, dash.gotID)
	}
	var ov dashboard.Overview
	if err := json.Unmarshal(w.Body.Bytes(), &ov); err != nil || ov.Range != dashboard.RangeMonth {
		t.Fatalf("overview = %+v, %v", ov, err)
	}
}

func TestShareAPI(t *testing.T) {
	r, _, _ := newProfessionalRouter(t)
	w := call(r, http.MethodGet, "/api/professionals/prof_1/share", "", "")
	var link profile.ShareLink
	if err := json.Unmarshal(w.Body.Bytes(), &link); err != nil || w.Code != http.StatusOK {
		t.Fatalf("status %d: %v", w.Code, err)
	}
	if link.URL != "https://beautybook.test/professional/prof_1" {
		t.Fatalf("url = %q", link.URL)
	}
	if w := call(r, http.MethodGet, "/api/professionals/nobody/share", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown professional: status %d", w.Code)
	}
}
