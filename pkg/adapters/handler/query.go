package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

type QueryHandler struct {
	service ports.QueryService
}

func NewQueryHandler(service ports.QueryService) *QueryHandler {
	return &QueryHandler{service: service}
}

// createQueryRequest payload. Timestamp and count are not accepted from callers.
type createQueryRequest struct {
	domain.QueryFields
	domain.Submitter
}

// ListAll handles GET /all-queries
func (h *QueryHandler) ListAll(w http.ResponseWriter, r *http.Request) error {
	queries, err := h.service.ListAll(r.Context())
	if err != nil {
		return err
	}
	respondList(w, queries)
	return nil
}

// Create handles POST /add-query
func (h *QueryHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req createQueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	res, err := h.service.Create(r.Context(), req.QueryFields, req.Submitter)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}

// ListMine handles GET /my-queries/{email}
func (h *QueryHandler) ListMine(w http.ResponseWriter, r *http.Request) error {
	queries, err := h.service.ListMine(r.Context(), r.PathValue("email"))
	if err != nil {
		return err
	}
	respondList(w, queries)
	return nil
}

// Get handles GET /query/{id}
func (h *QueryHandler) Get(w http.ResponseWriter, r *http.Request) error {
	query, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, query)
	return nil
}

// Delete handles DELETE /query/{id}
func (h *QueryHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	res, err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}

// Update handles PATCH /query/{id}
func (h *QueryHandler) Update(w http.ResponseWriter, r *http.Request) error {
	var fields domain.QueryFields
	if err := decodeBody(w, r, &fields); err != nil {
		return err
	}

	if err := h.service.Update(r.Context(), r.PathValue("id"), fields); err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Query updated successfully"})
	return nil
}

// IncrementRecommendations handles PATCH /query/{id}/increment-recommendations
func (h *QueryHandler) IncrementRecommendations(w http.ResponseWriter, r *http.Request) error {
	res, err := h.service.IncrementRecommendations(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}

// DecrementRecommendations handles PATCH /query/{id}/decrement-recommendations
func (h *QueryHandler) DecrementRecommendations(w http.ResponseWriter, r *http.Request) error {
	res, err := h.service.DecrementRecommendations(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}
