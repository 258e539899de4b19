package booking_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"beautybook/models"
	"beautybook/services/booking"
)

func TestStaticCatalog_Fixture(t *testing.T) {
	c := booking.NewStaticCatalog()
	svc, err := c.GetService(context.Background(), "service_1")
	if err != nil || svc.Name != "Bridal Makeup Package" || svc.Duration != 180 {
		t.Fatalf("service = %+v, %v", svc, err)
	}
	prof, err := c.GetProfessional(context.Background(), svc.ProfessionalID)
	if err != nil || prof.BusinessName != "Glamour Studio by Sarah" || prof.ReviewCount != 127 {
		t.Fatalf("professional = %+v, %v", prof, err)
	}
	slots, _ := c.AvailableSlots(context.Background(), "prof_1", "2030-06-03")
	if !slices.Equal(slots, booking.DefaultTimeSlots) {
		t.Fatalf("slots = %v", slots)
	}
}

func TestStaticCatalog_InactiveServiceIsNotFound(t *testing.T) {
	c := booking.NewStaticCatalog()
	c.AddService(models.Service{ID: "old", ProfessionalID: "prof_1"})
	if _, err := c.GetService(context.Background(), "old"); !errors.Is(err, booking.ErrServiceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSlotsFor(t *testing.T) {
	if s := booking.SlotsFor(&models.Professional{Availability: false}); len(s) != 0 {
		t.Fatalf("unavailable professional offers %v", s)
	}
	own := []string{"8:00 AM"}
	if s := booking.SlotsFor(&models.Professional{Availability: true, TimeSlots: own}); !slices.Equal(s, own) {
		t.Fatalf("slots = %v", s)
	}
}

func TestStaticCatalog_UpdateProfessionalRating(t *testing.T) {
	c := booking.NewStaticCatalog()
	if err := c.UpdateProfessionalRating(context.Background(), "prof_1", 4.5, 2); err != nil {
		t.Fatal(err)
	}
	p, _ := c.GetProfessional(context.Background(), "prof_1")
	if p.Rating != 4.5 || p.ReviewCount != 2 {
		t.Fatalf("professional = %+v", p)
	}
}

func TestStaticCatalog_Listing(t *testing.T) {
	c := booking.NewStaticCatalog()
	c.AddService(models.Service{ID: "a_first", ProfessionalID: "prof_1", Active: true})
	services, professionals := c.Listing()
	if len(services) != 2 || services[0].ID != "a_first" || services[1].ID != "service_1" {
		t.Fatalf("services = %+v", services)
	}
	if len(professionals) != 1 || professionals[0].ID != "prof_1" {
		t.Fatalf("professionals = %+v", professionals)
	}
}
