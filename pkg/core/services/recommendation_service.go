package services

import (
	"context"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	apperrors "github.com/wadjakorntonsri/selectify-server/pkg/errors"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

const (
	msgRecInsertFailed  = "Failed to insert recommendation"
	msgRecsFetchFailed  = "Failed to fetch recommendations"
	msgRecDeleteFailed  = "Failed to delete recommendation"
	msgRecBodyNotObject = "Recommendation body must be a JSON object"
)

type RecommendationService struct {
	repo ports.RecommendationRepository
}

func NewRecommendationService(repo ports.RecommendationRepository) *RecommendationService {
	return &RecommendationService{repo: repo}
}

// Create stores the document as submitted. The referenced query is not
// checked and any client supplied _id is discarded.
func (s *RecommendationService) Create(ctx context.Context, rec domain.Recommendation) (*domain.InsertResult, error) {
	if rec == nil {
		return nil, apperrors.NewValidationError(msgRecBodyNotObject)
	}

	id, err := s.repo.CreateRecommendation(ctx, rec.WithoutID())
	if err != nil {
		return nil, apperrors.NewInternalError(msgRecInsertFailed, err)
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *RecommendationService) ListByQuery(ctx context.Context, queryID string) ([]domain.Recommendation, error) {
	return s.list(ctx, domain.FieldQueryID, queryID)
}

func (s *RecommendationService) ListByRecommender(ctx context.Context, email string) ([]domain.Recommendation, error) {
	return s.list(ctx, domain.FieldRecommenderEmail, email)
}

// ListForQueryOwner returns recommendations left on queries owned by email.
func (s *RecommendationService) ListForQueryOwner(ctx context.Context, email string) ([]domain.Recommendation, error) {
	return s.list(ctx, domain.FieldQueryOwnerEmail, email)
}

func (s *RecommendationService) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	if !domain.IsValidID(id) {
		return nil, apperrors.NewValidationError(msgInvalidID)
	}

	res, err := s.repo.DeleteRecommendation(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(msgRecDeleteFailed, err)
	}
	return res, nil
}

func (s *RecommendationService) list(ctx context.Context, field, value string) ([]domain.Recommendation, error) {
	recs, err := s.repo.ListRecommendations(ctx, field, value)
	if err != nil {
		return nil, apperrors.NewInternalError(msgRecsFetchFailed, err)
	}
	return recs, nil
}

// Ensure interface compliance
var _ ports.RecommendationService = (*RecommendationService)(nil)
