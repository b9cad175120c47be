package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/selectify-server/pkg/adapters/handler"
	"github.com/wadjakorntonsri/selectify-server/pkg/config"
	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	apperrors "github.com/wadjakorntonsri/selectify-server/pkg/errors"
)

const validID = "507f1f77bcf86cd799439011"

type stubQueryService struct {
	queries      []domain.Query
	query        *domain.Query
	err          error
	gotID        string
	gotEmail     string
	gotFields    domain.QueryFields
	gotSubmitter domain.Submitter
}

func (s *stubQueryService) ListAll(ctx context.Context) ([]domain.Query, error) {
	return s.queries, s.err
}

func (s *stubQueryService) Create(ctx context.Context, fields domain.QueryFields, submitter domain.Submitter) (*domain.InsertResult, error) {
	s.gotFields, s.gotSubmitter = fields, submitter
	if s.err != nil {
		return nil, s.err
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: validID}, nil
}

func (s *stubQueryService) ListMine(ctx context.Context, email string) ([]domain.Query, error) {
	s.gotEmail = email
	return s.queries, s.err
}

func (s *stubQueryService) Get(ctx context.Context, id string) (*domain.Query, error) {
	s.gotID = id
	return s.query, s.err
}

func (s *stubQueryService) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *stubQueryService) Update(ctx context.Context, id string, fields domain.QueryFields) error {
	s.gotID, s.gotFields = id, fields
	return s.err
}

func (s *stubQueryService) IncrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error) {
	s.gotID = id
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, s.err
}

func (s *stubQueryService) DecrementRecommendations(ctx context.Context, id string) (*domain.UpdateResult, error) {
	s.gotID = id
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, s.err
}

type stubRecommendationService struct {
	recs     []domain.Recommendation
	err      error
	created  domain.Recommendation
	gotValue string
	gotCall  string
}

func (s *stubRecommendationService) Create(ctx context.Context, rec domain.Recommendation) (*domain.InsertResult, error) {
	s.created = rec
	if s.err != nil {
		return nil, s.err
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: validID}, nil
}

func (s *stubRecommendationService) ListByQuery(ctx context.Context, queryID string) ([]domain.Recommendation, error) {
	s.gotCall, s.gotValue = "byQuery", queryID
	return s.recs, s.err
}

func (s *stubRecommendationService) ListByRecommender(ctx context.Context, email string) ([]domain.Recommendation, error) {
	s.gotCall, s.gotValue = "byRecommender", email
	return s.recs, s.err
}

func (s *stubRecommendationService) ListForQueryOwner(ctx context.Context, email string) ([]domain.Recommendation, error) {
	s.gotCall, s.gotValue = "forOwner", email
	return s.recs, s.err
}

func (s *stubRecommendationService) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	s.gotValue = id
	return &domain.DeleteResult{Acknowledged: true}, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newRouter(qs *stubQueryService, rs *stubRecommendationService) http.Handler {
	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	return handler.NewRouter(cfg, qs, rs, stubPinger{})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["message"]
}

func TestRoot(t *testing.T) {
	w := serve(newRouter(&stubQueryService{}, &stubRecommendationService{}), "GET", "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", w.Body.String())
}

func TestHealthz(t *testing.T) {
	cfg := &config.Config{}

	ok := handler.NewRouter(cfg, &stubQueryService{}, &stubRecommendationService{}, stubPinger{})
	w := serve(ok, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeMessage(t, w))

	down := handler.NewRouter(cfg, &stubQueryService{}, &stubRecommendationService{}, stubPinger{err: errors.New("no server")})
	w = serve(down, "GET", "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListAllQueries_EmptyIsArray(t *testing.T) {
	w := serve(newRouter(&stubQueryService{}, &stubRecommendationService{}), "GET", "/all-queries", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListAllQueries_Encoding(t *testing.T) {
	qs := &stubQueryService{queries: []domain.Query{{
		ID:                  validID,
		ProductName:         "X",
		UserEmail:           "a@x.com",
		Timestamp:           time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		RecommendationCount: -1,
	}}}

	w := serve(newRouter(qs, &stubRecommendationService{}), "GET", "/all-queries", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, validID, got[0]["_id"])
	assert.Equal(t, "X", got[0]["productName"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got[0]["timestamp"])
	assert.Equal(t, -1.0, got[0]["recommendationCount"])
}

func TestAddQuery(t *testing.T) {
	qs := &stubQueryService{}
	body := `{"productName":"X","productBrand":"B","productImageUrl":"i.png","queryTitle":"T","boycottReason":"R",
		"userEmail":"a@x.com","userName":"Ann","userImage":"a.png","recommendationCount":99,"timestamp":"2000-01-01T00:00:00Z"}`

	w := serve(newRouter(qs, &stubRecommendationService{}), "POST", "/add-query", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"`+validID+`"}`, w.Body.String())
	assert.Equal(t, domain.QueryFields{ProductName: "X", ProductBrand: "B", ProductImageURL: "i.png", QueryTitle: "T", BoycottReason: "R"}, qs.gotFields)
	assert.Equal(t, domain.Submitter{UserEmail: "a@x.com", UserName: "Ann", UserImage: "a.png"}, qs.gotSubmitter)
}

func TestAddQuery_Errors(t *testing.T) {
	w := serve(newRouter(&stubQueryService{}, &stubRecommendationService{}), "POST", "/add-query", `{"productName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeMessage(t, w))

	qs := &stubQueryService{err: apperrors.NewInternalError("Failed to insert query", errors.New("E11000 duplicate key"))}
	w = serve(newRouter(qs, &stubRecommendationService{}), "POST", "/add-query", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to insert query", decodeMessage(t, w))
}

func TestRequestBodyLimit(t *testing.T) {
	qs := &stubQueryService{}
	rs := &stubRecommendationService{}
	big := `{"boycottReason":"` + strings.Repeat("x", 100<<10) + `"}`

	for _, tc := range []struct{ method, path string }{
		{"POST", "/add-query"},
		{"PATCH", "/query/" + validID},
		{"POST", "/recommendations"},
	} {
		w := serve(newRouter(qs, rs), tc.method, tc.path, big)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Request body too large", decodeMessage(t, w))
	}
	assert.Empty(t, qs.gotFields.BoycottReason)
	assert.Nil(t, rs.created)

	// Just under the limit is accepted
	fits := `{"boycottReason":"` + strings.Repeat("x", 100<<10-100) + `"}`
	w := serve(newRouter(qs, rs), "POST", "/add-query", fits)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetQuery_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid id", apperrors.NewValidationError("Invalid ID format"), http.StatusBadRequest, "Invalid ID format"},
		{"not found", apperrors.NewNotFoundError("Query not found"), http.StatusNotFound, "Query not found"},
		{"store fault", apperrors.NewInternalError("Failed to fetch query details", errors.New("socket closed")), http.StatusInternalServerError, "Failed to fetch query details"},
		{"unclassified fault", errors.New("driver exploded"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := &stubQueryService{err: tt.err}
			w := serve(newRouter(qs, &stubRecommendationService{}), "GET", "/query/abc", "")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeMessage(t, w))
			assert.Equal(t, "abc", qs.gotID)
		})
	}
}

func TestGetQuery_OK(t *testing.T) {
	qs := &stubQueryService{query: &domain.Query{ID: validID, QueryTitle: "T"}}

	w := serve(newRouter(qs, &stubRecommendationService{}), "GET", "/query/"+validID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.Query
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "T", got.QueryTitle)
}

func TestMyQueries_PassesEmail(t *testing.T) {
	qs := &stubQueryService{}

	w := serve(newRouter(qs, &stubRecommendationService{}), "GET", "/my-queries/a@x.com", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", qs.gotEmail)
}

func TestUpdateQuery(t *testing.T) {
	qs := &stubQueryService{}
	body := `{"productName":"N","productBrand":"B","productImageUrl":"i","queryTitle":"T","boycottReason":"R","recommendationCount":50}`

	w := serve(newRouter(qs, &stubRecommendationService{}), "PATCH", "/query/"+validID, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Query updated successfully", decodeMessage(t, w))
	assert.Equal(t, validID, qs.gotID)
	assert.Equal(t, domain.QueryFields{ProductName: "N", ProductBrand: "B", ProductImageURL: "i", QueryTitle: "T", BoycottReason: "R"}, qs.gotFields)

	qs.err = apperrors.NewNotFoundError("Query not found or no changes made")
	w = serve(newRouter(qs, &stubRecommendationService{}), "PATCH", "/query/"+validID, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Query not found or no changes made", decodeMessage(t, w))
}

func TestDeleteQuery(t *testing.T) {
	qs := &stubQueryService{}

	w := serve(newRouter(qs, &stubRecommendationService{}), "DELETE", "/query/"+validID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())
}

func TestRecommendationCountRoutes(t *testing.T) {
	for _, path := range []string{"increment-recommendations", "decrement-recommendations"} {
		t.Run(path, func(t *testing.T) {
			qs := &stubQueryService{}

			w := serve(newRouter(qs, &stubRecommendationService{}), "PATCH", "/query/"+validID+"/"+path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1}`, w.Body.String())
			assert.Equal(t, validID, qs.gotID)
		})
	}
}

func TestCreateRecommendation(t *testing.T) {
	rs := &stubRecommendationService{}
	body := `{"queryId":"q1","recommenderEmail":"r@x.com","alternative":{"name":"Y"}}`

	w := serve(newRouter(&stubQueryService{}, rs), "POST", "/recommendations", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"`+validID+`"}`, w.Body.String())
	assert.Equal(t, "q1", rs.created.QueryID())
	assert.Equal(t, map[string]any{"name": "Y"}, rs.created["alternative"])

	w = serve(newRouter(&stubQueryService{}, rs), "POST", "/recommendations", `["not","an","object"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationListRoutes(t *testing.T) {
	tests := []struct {
		path  string
		call  string
		value string
	}{
		{"/recommendations/q1", "byQuery", "q1"},
		{"/my-recommendations/r@x.com", "byRecommender", "r@x.com"},
		{"/recommendations-for-my-queries/o@x.com", "forOwner", "o@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rs := &stubRecommendationService{recs: []domain.Recommendation{{"_id": validID, "queryId": "q1"}}}

			w := serve(newRouter(&stubQueryService{}, rs), "GET", tt.path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[{"_id":"`+validID+`","queryId":"q1"}]`, w.Body.String())
			assert.Equal(t, tt.call, rs.gotCall)
			assert.Equal(t, tt.value, rs.gotValue)
		})
	}
}

func TestRecommendationList_StoreFault(t *testing.T) {
	rs := &stubRecommendationService{err: apperrors.NewInternalError("Failed to fetch recommendations", errors.New("timeout"))}

	w := serve(newRouter(&stubQueryService{}, rs), "GET", "/my-recommendations/r@x.com", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch recommendations", decodeMessage(t, w))
}

func TestDeleteRecommendation(t *testing.T) {
	rs := &stubRecommendationService{}

	w := serve(newRouter(&stubQueryService{}, rs), "DELETE", "/recommendations/"+validID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, validID, rs.gotValue)
}

func TestUnknownMethodIsRejected(t *testing.T) {
	w := serve(newRouter(&stubQueryService{}, &stubRecommendationService{}), "PUT", "/query/"+validID, "{}")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newRouter(&stubQueryService{}, &stubRecommendationService{})
	serve(h, "GET", "/all-queries", "")

	w := serve(h, "GET", "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `selectify_http_requests_total{method="GET",route="GET /all-queries",status="200"}`)
}
