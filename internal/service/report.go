package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"fixmycity/internal/model"
)

// ReportService submits and deletes reports for the current session.
type ReportService struct {
	api    ReportAPI
	tokens TokenSource
	images *ImageEncoder
	logger zerolog.Logger
}

func NewReportService(api ReportAPI, tokens TokenSource, images *ImageEncoder, logger zerolog.Logger) *ReportService {
	if images == nil {
		images = NewImageEncoder(0, 0, false)
	}
	return &ReportService{
		api:    api,
		tokens: tokens,
		images: images,
		logger: logger.With().Str("component", "Report").Logger(),
	}
}

// ValidateNewReport checks the fields a report needs before anything is sent.
func ValidateNewReport(in model.NewReport) error {
	if strings.TrimSpace(in.Title) == "" {
		return model.ErrMissingTitle
	}
	if strings.TrimSpace(in.Caption) == "" {
		return model.ErrMissingCaption
	}
	if in.ImageBase64 == "" && in.ImagePath == "" {
		return model.ErrMissingImage
	}
	if !model.Rating(in.Rating).Valid() {
		return model.ErrInvalidRating
	}
	return nil
}

// Submit validates, encodes the image and posts the report.
func (s *ReportService) Submit(ctx context.Context, in model.NewReport) (*model.Report, error) {
	if err := ValidateNewReport(in); err != nil {
		return nil, err
	}

	token := s.tokens.Token()
	if token == "" {
		return nil, model.ErrNotLoggedIn
	}

	image, err := s.images.DataURI(in)
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}

	created, err := s.api.CreateReport(ctx, token, model.CreateReportRequest{
		Title:   in.Title,
		Caption: in.Caption,
		Place:   in.Place,
		Rating:  model.MarshalRating(in.Rating),
		Image:   image,
		Lat:     in.Lat,
		Lng:     in.Lng,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("title", in.Title).Msg("Submit FAILED")
		return nil, fmt.Errorf("submit report: %w", err)
	}

	s.logger.Info().Str("report_id", created.ID).Msg("Submit OK")
	return created, nil
}

// Delete removes one of the user's reports.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrMissingReportID
	}

	if err := s.api.DeleteReport(ctx, s.tokens.Token(), id); err != nil {
		s.logger.Warn().Err(err).Str("report_id", id).Msg("Delete FAILED")
		return fmt.Errorf("delete report %s: %w", id, err)
	}

	s.logger.Info().Str("report_id", id).Msg("Delete OK")
	return nil
}
