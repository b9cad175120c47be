package services

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	apperrors "github.com/wadjakorntonsri/selectify-server/pkg/errors"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

const (
	msgInvalidID          = "Invalid ID format"
	msgQueryNotFound      = "Query not found"
	msgQueryNotModified   = "Query not found or no changes made"
	msgQueryInsertFailed  = "Failed to insert query"
	msgQueryFetchFailed   = "Failed to fetch query details"
	msgQueriesFetchFailed = "Failed to fetch queries"
	msgQueryUpdateFailed  = "Failed to update query"
	msgQueryDeleteFailed  = "Failed to delete query"
	msgCountUpdateFailed  = "Failed to update recommendation count"
)

type QueryService struct {
	repo ports.QueryRepository
	now  func() time.Time
}

func NewQueryService(repo ports.QueryRepository) *QueryService {
	return &QueryService{repo: repo, now: time.Now}
}

func (s *QueryService) ListAll(ctx context.Context) ([]domain.Query, error) {
	queries, err := s.repo.ListQueries(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(msgQueriesFetchFailed, err)
	}
	return queries, nil
}

// Create stores a new query. The timestamp and recommendation count are
// always assigned here, never taken from the caller.
func (s *QueryService) Create(ctx context.Context, fields domain.QueryFields, submitter domain.Submitter) (*domain.InsertResult, error) {
	query := &domain.Query{
		UserEmail: submitter.UserEmail,
		UserName:  submitter.UserName,
		UserImage: submitter.UserImage,
		// Document stores keep millisecond precision
		Timestamp:           s.now().UTC().Truncate(time.Millisecond),
		RecommendationCount: 0,
	}
	query.Apply(fields)

	if err := s.repo.CreateQuery(ctx, query); err != nil {
		return nil, apperrors.NewInternalError(msgQueryInsertFailed, err)
	}

	return &domain.InsertResult{Acknowledged: true, InsertedID: query.ID}, nil
}

func (s *QueryService) ListMine(ctx context.Context, email string) ([]domain.Query, error) {
	queries, err := s.repo.ListQueriesByOwner(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(msgQueriesFetchFailed, err)
	}
	return queries, nil
}

// Get validates the identifier before touching the store.
func (s *QueryService) Get(ctx context.Context, id string) (*domain.Query, error) {
	if !domain.IsValidID(id) {
		return nil, apperrors.NewValidationError(msgInvalidID)
	}

	query, err := s.repo.GetQuery(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(msgQueryFetchFailed, err)
	}
	if query == nil {
		return nil, apperrors.NewNotFoundError(msgQueryNotFound)
	}
	return query, nil
}

// Delete removes the query only. Recommendations referencing it are kept.
func (s *QueryService) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	if !domain.IsValidID(id) {
		return nil, apperrors.NewValidationError(msgInvalidID)
	}

	res, err := s.repo.DeleteQuery(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(msgQueryDeleteFailed, err)
	}
	return res, nil
}

// Update overwrites the editable fields. It fails with not found unless
// exactly one document changed.
func (s *QueryService) Update(ctx context.Context, id string, fields domain.QueryFields) error {
	if !domain.IsValidID(id) {
		return apperrors.NewValidationError(msgInvalidID)
	}

	res, err := s.repo.UpdateQuery(ctx, id, fields)
	if err != nil {
		return apperrors.NewInternalError(msgQueryUpdateFailed, err)
	}
	if res.ModifiedCount != 1 {
		return apperrors.NewNotFoundError(msgQueryNotModified)
	}
	return nil
}

func (s *QueryService) IncrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error) {
	return s.addCount(ctx, id, 1)
}

// DecrementRecommendations has no floor; the count may go negative.
func (s *QueryService) DecrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error) {
	return s.addCount(ctx, id, -1)
}

func (s *QueryService) addCount(ctx context.Context, id string, delta int64) (*domain.UpdateResult, error) {
	if !domain.IsValidID(id) {
		return nil, apperrors.NewValidationError(msgInvalidID)
	}

	res, err := s.repo.AddRecommendationCount(ctx, id, delta)
	if err != nil {
		return nil, apperrors.NewInternalError(msgCountUpdateFailed, err)
	}
	return res, nil
}

// Ensure interface compliance
var _ ports.QueryService = (*QueryService)(nil)
