package orders

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/models"
	"github.com/orderdesk/orderdesk/internal/session"
)

// API is the subset of the backend client used for orders
type API interface {
	ListCategories(ctx context.Context, token string) ([]client.Category, error)
	CreateOrder(ctx context.Context, token string, req client.CreateOrderRequest) (*client.Order, error)
}

// Service submits orders to the backend and keeps the local submission log
type Service struct {
	api      API
	db       *gorm.DB
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates a new orders service
func NewService(api API, db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		db:       db,
		validate: NewValidator(),
		logger:   logger.With().Str("component", "orders").Logger(),
	}
}

// Categories returns the categories an order may be filed under
func (s *Service) Categories(ctx context.Context, token string) ([]client.Category, error) {
	return s.api.ListCategories(ctx, token)
}

// Submit validates the form, creates the order on the backend and records
// it locally. A *ValidationError means nothing was sent; backend errors are
// returned unchanged.
func (s *Service) Submit(ctx context.Context, token string, who session.Identity, form Form) (*models.Submission, error) {
	req, err := form.Validate(s.validate)
	if err != nil {
		return nil, err
	}

	order, err := s.api.CreateOrder(ctx, token, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", who.ID).Msg("Backend rejected order")
		return nil, err
	}

	submission := &models.Submission{
		UserID:    who.ID,
		UserEmail: who.Email,
		Customer:  req.Customer,
		Category:  req.Category,
		Date:      req.Date,
		Source:    req.Source,
		Geo:       req.Geo,
		Amount:    req.Amount,
	}
	if order != nil {
		submission.RemoteID = order.ID
	}

	// The order exists on the backend at this point; losing the local
	// record is logged rather than reported as a failed submission.
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		s.logger.Error().Err(err).Str("remote_id", submission.RemoteID).Msg("Failed to record submission")
		return submission, nil
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("remote_id", submission.RemoteID).
		Str("user_id", who.ID).
		Float64("amount", submission.Amount).
		Msg("Order submitted")

	return submission, nil
}

// Recent returns the latest submissions, newest first. An empty userID
// returns submissions from every user.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]models.Submission, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
