package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"beautybook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingSessionService owns the live booking wizards.
type BookingSessionService interface {
	StartBooking(ctx context.Context, serviceID, customerID string) (*Wizard, error)
	GetSession(ctx context.Context, sessionID string) (*Wizard, error)
	Update(ctx context.Context, sessionID string, fn func(*Wizard) error) (*Wizard, error)
	Discard(ctx context.Context, sessionID string) error
	Sweep(ctx context.Context, maxIdle time.Duration) int
}

// SessionOptions configures DefaultBookingSessionService.
type SessionOptions struct {
	Catalog      Catalog
	Processor    PaymentProcessor
	Cache        SessionCache
	Confirmation BookingConfirmation
	TTL          time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

// DefaultBookingSessionService keeps wizards in memory and mirrors each one
// to the session cache so it survives a restart or a sweep.
type DefaultBookingSessionService struct {
	opts SessionOptions

	mu   sync.Mutex
	live map[string]*Wizard
}

func NewBookingSessionService(opts SessionOptions) *DefaultBookingSessionService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cache == nil {
		opts.Cache = NewMemorySessionCache()
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &DefaultBookingSessionService{opts: opts, live: make(map[string]*Wizard)}
}

// StartBooking loads the service and its professional and opens a session at
// the first step. A missing service or professional yields ErrServiceNotFound.
func (s *DefaultBookingSessionService) StartBooking(ctx context.Context, serviceID, customerID string) (*Wizard, error) {
	svc, err := s.opts.Catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	prof, err := s.opts.Catalog.GetProfessional(ctx, svc.ProfessionalID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: professional %s", ErrServiceNotFound, svc.ProfessionalID)
		}
		return nil, fmt.Errorf("failed to load professional: %w", err)
	}

	now := s.opts.Now().UTC()
	session := models.BookingSession{
		SessionID:    uuid.New().String(),
		CustomerID:   customerID,
		CurrentStep:  models.StepService,
		Service:      *svc,
		Professional: *prof,
		Payment:      models.PaymentFields{Method: models.PaymentMethodCard},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	w := s.wrap(session)

	s.mu.Lock()
	s.live[session.SessionID] = w
	s.mu.Unlock()

	if err := s.save(ctx, w); err != nil {
		s.opts.Logger.Warn("Failed to snapshot new session", zap.String("sessionID", session.SessionID), zap.Error(err))
	}
	s.opts.Logger.Info("Booking session started",
		zap.String("sessionID", session.SessionID),
		zap.String("serviceID", serviceID),
	)
	return w, nil
}

// GetSession returns the live wizard, rehydrating it from the cache when it is
// not in memory. A rehydrated session is never processing.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*Wizard, error) {
	s.mu.Lock()
	w, ok := s.live[sessionID]
	s.mu.Unlock()
	if ok {
		return w, nil
	}

	snap, err := s.opts.Cache.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap.Processing = false

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.live[sessionID]; ok {
		return existing, nil
	}
	w = s.wrap(*snap)
	s.live[sessionID] = w
	s.opts.Logger.Debug("Booking session rehydrated", zap.String("sessionID", sessionID))
	return w, nil
}

// Update runs fn against the session and snapshots the result. The snapshot
// is taken even when fn fails so that recorded field errors persist.
func (s *DefaultBookingSessionService) Update(ctx context.Context, sessionID string, fn func(*Wizard) error) (*Wizard, error) {
	w, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fnErr := fn(w)
	if s.isLive(sessionID, w) {
		if err := s.save(ctx, w); err != nil {
			s.opts.Logger.Warn("Failed to snapshot session", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return w, fnErr
}

func (s *DefaultBookingSessionService) Discard(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()
	if err := s.opts.Cache.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to discard booking session: %w", err)
	}
	s.opts.Logger.Info("Booking session discarded", zap.String("sessionID", sessionID))
	return nil
}

// Sweep drops in-memory wizards idle for longer than maxIdle. Sessions with a
// charge in flight are kept. Snapshots expire on their own TTL.
func (s *DefaultBookingSessionService) Sweep(ctx context.Context, maxIdle time.Duration) int {
	now := s.opts.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, w := range s.live {
		if w.Processing() || w.IdleFor(now) <= maxIdle {
			continue
		}
		delete(s.live, id)
		evicted++
	}
	if evicted > 0 {
		s.opts.Logger.Info("Evicted idle booking sessions", zap.Int("count", evicted), zap.Int("remaining", len(s.live)))
	}
	return evicted
}

// LiveCount returns the number of wizards held in memory.
func (s *DefaultBookingSessionService) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *DefaultBookingSessionService) isLive(sessionID string, w *Wizard) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[sessionID] == w
}

func (s *DefaultBookingSessionService) save(ctx context.Context, w *Wizard) error {
	return s.opts.Cache.Save(ctx, w.Snapshot(), s.opts.TTL)
}

func (s *DefaultBookingSessionService) wrap(session models.BookingSession) *Wizard {
	sessionID := session.SessionID
	var w *Wizard
	w = NewWizard(session, WizardDeps{
		Processor: s.opts.Processor,
		Catalog:   s.opts.Catalog,
		Logger:    s.opts.Logger,
		Now:       s.opts.Now,
		Callbacks: Callbacks{
			OnBack: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.Discard(ctx, sessionID); err != nil {
					s.opts.Logger.Warn("Failed to discard abandoned session", zap.String("sessionID", sessionID), zap.Error(err))
				}
			},
			OnBookingComplete: func(bookingID string) {
				s.complete(w, bookingID)
			},
		},
	})
	return w
}

// complete hands a confirmed session to the confirmation pipeline. Failures
// are logged; the customer already holds a confirmed booking.
func (s *DefaultBookingSessionService) complete(w *Wizard, bookingID string) {
	snap := w.Snapshot()
	ctx := context.Background()
	if err := s.opts.Cache.Save(ctx, snap, s.opts.TTL); err != nil {
		s.opts.Logger.Warn("Failed to snapshot confirmed session", zap.String("sessionID", snap.SessionID), zap.Error(err))
	}
	if s.opts.Confirmation == nil {
		return
	}
	if _, err := s.opts.Confirmation.Confirm(ctx, snap); err != nil {
		s.opts.Logger.Error("Booking confirmation pipeline failed",
			zap.String("sessionID", snap.SessionID),
			zap.String("bookingID", bookingID),
			zap.Error(err),
		)
	}
}
