package booking

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"beautybook/models"
)

// Catalog supplies the service and professional a session is built from,
// and the time slots a professional offers.
type Catalog interface {
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
	GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error)
	AvailableSlots(ctx context.Context, professionalID, date string) ([]string, error)
}

// DefaultTimeSlots is offered by professionals that do not list their own.
var DefaultTimeSlots = []string{
	"9:00 AM", "10:00 AM", "11:00 AM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM",
}

// SlotsFor returns the slot labels a professional offers on any open day.
func SlotsFor(p *models.Professional) []string {
	if p == nil || !p.Availability {
		return nil
	}
	if len(p.TimeSlots) > 0 {
		return slices.Clone(p.TimeSlots)
	}
	return slices.Clone(DefaultTimeSlots)
}

// StaticCatalog is an in-memory catalog. NewStaticCatalog seeds it with the
// demo listing.
type StaticCatalog struct {
	mu            sync.RWMutex
	services      map[string]models.Service
	professionals map[string]models.Professional
}

func NewStaticCatalog() *StaticCatalog {
	c := &StaticCatalog{
		services:      make(map[string]models.Service),
		professionals: make(map[string]models.Professional),
	}
	seeded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.AddProfessional(models.Professional{
		ID:           "prof_1",
		UserID:       "user_1",
		BusinessName: "Glamour Studio by Sarah",
		Description:  "Professional makeup artist specializing in bridal and special event makeup",
		Location:     "Downtown, NYC",
		Rating:       4.9,
		ReviewCount:  127,
		Verified:     true,
		Specialties:  []string{"Bridal Makeup", "Special Events"},
		PriceRange:   "$80-150",
		Availability: true,
		CreatedAt:    seeded,
	})
	c.AddService(models.Service{
		ID:             "service_1",
		ProfessionalID: "prof_1",
		Name:           "Bridal Makeup Package",
		Description:    "Complete bridal makeup including trial session, airbrush foundation, and false lashes",
		Duration:       180,
		Price:          150,
		Category:       "Makeup",
		Images:         []string{"https://images.unsplash.com/photo-1487412947147-5cebf100ffc2?w=600&h=400&fit=crop"},
		Active:         true,
		CreatedAt:      seeded,
	})
	return c
}

func (c *StaticCatalog) AddService(s models.Service) {
	c.mu.Lock()
	c.services[s.ID] = s
	c.mu.Unlock()
}

func (c *StaticCatalog) AddProfessional(p models.Professional) {
	c.mu.Lock()
	c.professionals[p.ID] = p
	c.mu.Unlock()
}

// Listing returns every stored service and professional ordered by ID.
func (c *StaticCatalog) Listing() ([]models.Service, []models.Professional) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	services := slices.SortedFunc(maps.Values(c.services), func(a, b models.Service) int {
		return strings.Compare(a.ID, b.ID)
	})
	professionals := slices.SortedFunc(maps.Values(c.professionals), func(a, b models.Professional) int {
		return strings.Compare(a.ID, b.ID)
	})
	return services, professionals
}

func (c *StaticCatalog) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.services[serviceID]
	if !ok || !s.Active {
		return nil, ErrServiceNotFound
	}
	return &s, nil
}

func (c *StaticCatalog) GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.professionals[professionalID]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &p, nil
}

// ListServices returns the active services of a professional.
func (c *StaticCatalog) ListServices(ctx context.Context, professionalID string) ([]models.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Service
	for _, s := range c.services {
		if s.ProfessionalID == professionalID && s.Active {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.Service) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (c *StaticCatalog) AvailableSlots(ctx context.Context, professionalID, date string) ([]string, error) {
	p, err := c.GetProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return SlotsFor(p), nil
}

// UpdateProfessionalRating stores a refreshed review aggregate.
func (c *StaticCatalog) UpdateProfessionalRating(ctx context.Context, professionalID string, rating float64, reviewCount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.professionals[professionalID]
	if !ok {
		return ErrServiceNotFound
	}
	p.Rating = rating
	p.ReviewCount = reviewCount
	c.professionals[professionalID] = p
	return nil
}
