package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"beautybook/models"
	"beautybook/services/notification"

	"go.uber.org/zap"
)

// ProfessionalLookup resolves the professional being shared.
type ProfessionalLookup interface {
	GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error)
}

// ShareLink is returned to the caller in place of a clipboard write.
type ShareLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ShareService struct {
	baseURL      string
	professional ProfessionalLookup
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewShareService(baseURL string, lookup ProfessionalLookup, notifier notification.Notifier, logger *zap.Logger) *ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShareService{
		baseURL:      strings.TrimRight(baseURL, "/"),
		professional: lookup,
		notifier:     notifier,
		logger:       logger,
	}
}

// ProfileURL is the public page of a professional.
func (s *ShareService) ProfileURL(professionalID string) string {
	return s.baseURL + "/professional/" + url.PathEscape(professionalID)
}

// ShareProfile builds the share link and emits a profile_shared notice. A
// failed notice does not fail the share.
func (s *ShareService) ShareProfile(ctx context.Context, professionalID, sharedBy string) (*ShareLink, error) {
	p, err := s.professional.GetProfessional(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load professional: %w", err)
	}
	link := &ShareLink{
		URL:   s.ProfileURL(p.ID),
		Title: p.BusinessName,
		Text:  fmt.Sprintf("Check out %s on BeautyBook", p.BusinessName),
	}

	if s.notifier != nil {
		data := map[string]string{"url": link.URL}
		if sharedBy != "" {
			data["sharedBy"] = sharedBy
		}
		err := s.notifier.Notify(ctx, models.Notice{
			Type:           models.NoticeProfileShared,
			ProfessionalID: p.ID,
			Title:          "Your profile was shared",
			Body:           link.Text,
			Data:           data,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("Failed to send share notice", zap.String("professionalID", p.ID), zap.Error(err))
		}
	}
	return link, nil
}
