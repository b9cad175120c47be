package ports

import (
	"context"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
)

// QueryRepository defines storage operations for boycott queries
type QueryRepository interface {
	CreateQuery(ctx context.Context, query *domain.Query) error
	GetQuery(ctx context.Context, id string) (*domain.Query, error) // nil, nil when absent
	ListQueries(ctx context.Context) ([]domain.Query, error)
	ListQueriesByOwner(ctx context.Context, email string) ([]domain.Query, error) // Newest first
	UpdateQuery(ctx context.Context, id string, fields domain.QueryFields) (*domain.UpdateResult, error)
	DeleteQuery(ctx context.Context, id string) (*domain.DeleteResult, error)
	AddRecommendationCount(ctx context.Context, id string, delta int64) (*domain.UpdateResult, error)
}

// RecommendationRepository defines storage operations for recommendations
type RecommendationRepository interface {
	CreateRecommendation(ctx context.Context, rec domain.Recommendation) (string, error)
	// ListRecommendations returns documents whose field equals value.
	ListRecommendations(ctx context.Context, field, value string) ([]domain.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id string) (*domain.DeleteResult, error)
}

// Store is a connected document store holding both collections
type Store interface {
	QueryRepository
	RecommendationRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// QueryService defines the operations over boycott queries
type QueryService interface {
	ListAll(ctx context.Context) ([]domain.Query, error)
	Create(ctx context.Context, fields domain.QueryFields, submitter domain.Submitter) (*domain.InsertResult, error)
	ListMine(ctx context.Context, email string) ([]domain.Query, error)
	Get(ctx context.Context, id string) (*domain.Query, error)
	Delete(ctx context.Context, id string) (*domain.DeleteResult, error)
	Update(ctx context.Context, id string, fields domain.QueryFields) error
	IncrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error)
	DecrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error)
}

// RecommendationService defines the operations over recommendations
type RecommendationService interface {
	Create(ctx context.Context, rec domain.Recommendation) (*domain.InsertResult, error)
	ListByQuery(ctx context.Context, queryID string) ([]domain.Recommendation, error)
	ListByRecommender(ctx context.Context, email string) ([]domain.Recommendation, error)
	ListForQueryOwner(ctx context.Context, email string) ([]domain.Recommendation, error)
	Delete(ctx context.Context, id string) (*domain.DeleteResult, error)
}
