package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"beautybook/models"

	"go.uber.org/zap"
)

// TimeRange selects how many days of analytics the overview covers.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

func (r TimeRange) Days() int {
	switch r {
	case RangeMonth:
		return 30
	case RangeYear:
		return 365
	}
	return 7
}

func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(s)); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeYear:
		return r, nil
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

const (
	revenueSeriesDays  = 7
	recentBookingLimit = 10
	dateLayout         = "2006-01-02"
)

type AnalyticsRepository interface {
	// ListAnalytics returns daily rows with from <= date <= to, oldest first.
	ListAnalytics(ctx context.Context, professionalID, from, to string) ([]models.Analytics, error)
}

type BookingRepository interface {
	// ListBookingsByProfessional returns bookings on or after from, newest first.
	ListBookingsByProfessional(ctx context.Context, professionalID, from string) ([]models.Booking, error)
}

type ServiceLister interface {
	ListServices(ctx context.Context, professionalID string) ([]models.Service, error)
}

type ReviewSummarizer interface {
	Summary(ctx context.Context, professionalID string) (models.RatingSummary, error)
}

type RevenueBar struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	// Ratio is Revenue relative to the best day in the window, 0..1.
	Ratio float64 `json:"ratio"`
}

type ServiceShare struct {
	ServiceID  string  `json:"serviceId"`
	Name       string  `json:"name"`
	Bookings   int     `json:"bookings"`
	Percentage float64 `json:"percentage"`
}

type RecentBooking struct {
	BookingID   string  `json:"bookingId"`
	Customer    string  `json:"customer"`
	ServiceName string  `json:"serviceName"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

type Totals struct {
	Revenue      float64 `json:"revenue"`
	Bookings     int     `json:"bookings"`
	NewCustomers int     `json:"newCustomers"`
	AvgRating    float64 `json:"avgRating"`
}

// Overview is the business dashboard for one professional.
type Overview struct {
	ProfessionalID string               `json:"professionalId"`
	Range          TimeRange            `json:"range"`
	From           string               `json:"from"`
	To             string               `json:"to"`
	Totals         Totals               `json:"totals"`
	RevenueSeries  []RevenueBar         `json:"revenueSeries"`
	ServiceShares  []ServiceShare       `json:"serviceShares"`
	RecentBookings []RecentBooking      `json:"recentBookings"`
	Reviews        models.RatingSummary `json:"reviews"`
}

// ComputeTotals sums the analytics rows. AvgRating is the mean of the daily
// averages, 0 when there are no rows.
func ComputeTotals(rows []models.Analytics) Totals {
	var t Totals
	var ratings float64
	for _, r := range rows {
		t.Revenue += r.Revenue
		t.Bookings += r.Bookings
		t.NewCustomers += r.NewCustomers
		ratings += r.AvgRating
	}
	if len(rows) > 0 {
		t.AvgRating = ratings / float64(len(rows))
	}
	return t
}

// RevenueSeries returns the last seven rows scaled against the highest
// revenue across all rows.
func RevenueSeries(rows []models.Analytics) []RevenueBar {
	var peak float64
	for _, r := range rows {
		peak = max(peak, r.Revenue)
	}
	tail := rows
	if len(tail) > revenueSeriesDays {
		tail = tail[len(tail)-revenueSeriesDays:]
	}
	bars := make([]RevenueBar, 0, len(tail))
	for _, r := range tail {
		bar := RevenueBar{Date: r.Date, Revenue: r.Revenue}
		if peak > 0 {
			bar.Ratio = r.Revenue / peak
		}
		bars = append(bars, bar)
	}
	return bars
}

// ServiceShares gives each active service's share of totalBookings.
func ServiceShares(services []models.Service, bookings []models.Booking, totalBookings int) []ServiceShare {
	counts := make(map[string]int, len(services))
	for _, b := range bookings {
		counts[b.ServiceID]++
	}
	shares := make([]ServiceShare, 0, len(services))
	for _, s := range services {
		if !s.Active {
			continue
		}
		sh := ServiceShare{ServiceID: s.ID, Name: s.Name, Bookings: counts[s.ID]}
		if totalBookings > 0 {
			sh.Percentage = float64(sh.Bookings) / float64(totalBookings) * 100
		}
		shares = append(shares, sh)
	}
	return shares
}

// CustomerLabel shortens a customer id for display.
func CustomerLabel(customerID string) string {
	if len(customerID) > 4 {
		customerID = customerID[len(customerID)-4:]
	}
	return "Customer #" + customerID
}

type DashboardService interface {
	Overview(ctx context.Context, professionalID string, rng TimeRange) (*Overview, error)
}

type DefaultDashboardService struct {
	Analytics AnalyticsRepository
	Bookings  BookingRepository
	Services  ServiceLister
	Reviews   ReviewSummarizer
	Logger    *zap.Logger
	Now       func() time.Time
}

func (s *DefaultDashboardService) Overview(ctx context.Context, professionalID string, rng TimeRange) (*Overview, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	to := now()
	from := to.AddDate(0, 0, -(rng.Days() - 1))
	ov := &Overview{
		ProfessionalID: professionalID,
		Range:          rng,
		From:           from.Format(dateLayout),
		To:             to.Format(dateLayout),
	}

	rows, err := s.Analytics.ListAnalytics(ctx, professionalID, ov.From, ov.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	slices.SortStableFunc(rows, func(a, b models.Analytics) int { return strings.Compare(a.Date, b.Date) })
	ov.Totals = ComputeTotals(rows)
	ov.RevenueSeries = RevenueSeries(rows)

	services, err := s.Services.ListServices(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	bookings, err := s.Bookings.ListBookingsByProfessional(ctx, professionalID, ov.From)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	ov.ServiceShares = ServiceShares(services, bookings, ov.Totals.Bookings)
	ov.RecentBookings = recent(bookings, services)

	if s.Reviews != nil {
		summary, err := s.Reviews.Summary(ctx, professionalID)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("Dashboard review summary unavailable", zap.String("professionalID", professionalID), zap.Error(err))
			}
		} else {
			ov.Reviews = summary
		}
	}
	return ov, nil
}

func recent(bookings []models.Booking, services []models.Service) []RecentBooking {
	names := make(map[string]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}
	n := min(len(bookings), recentBookingLimit)
	out := make([]RecentBooking, 0, n)
	for _, b := range bookings[:n] {
		out = append(out, RecentBooking{
			BookingID:   b.ID,
			Customer:    CustomerLabel(b.CustomerID),
			ServiceName: names[b.ServiceID],
			Date:        b.Date,
			Time:        b.Time,
			Status:      b.Status,
			TotalAmount: b.TotalAmount,
		})
	}
	return out
}
