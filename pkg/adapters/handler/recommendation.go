package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

type RecommendationHandler struct {
	service ports.RecommendationService
}

func NewRecommendationHandler(service ports.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Create handles POST /recommendations. The body is stored as submitted.
func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) error {
	rec := domain.Recommendation{}
	if err := decodeBody(w, r, &rec); err != nil {
		return err
	}

	res, err := h.service.Create(r.Context(), rec)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}

// ListByQuery handles GET /recommendations/{id}, where id is the query id
func (h *RecommendationHandler) ListByQuery(w http.ResponseWriter, r *http.Request) error {
	recs, err := h.service.ListByQuery(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondList(w, recs)
	return nil
}

// ListMine handles GET /my-recommendations/{email}
func (h *RecommendationHandler) ListMine(w http.ResponseWriter, r *http.Request) error {
	recs, err := h.service.ListByRecommender(r.Context(), r.PathValue("email"))
	if err != nil {
		return err
	}
	respondList(w, recs)
	return nil
}

// ListForMyQueries handles GET /recommendations-for-my-queries/{email}
func (h *RecommendationHandler) ListForMyQueries(w http.ResponseWriter, r *http.Request) error {
	recs, err := h.service.ListForQueryOwner(r.Context(), r.PathValue("email"))
	if err != nil {
		return err
	}
	respondList(w, recs)
	return nil
}

// Delete handles DELETE /recommendations/{id}
func (h *RecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	res, err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, res)
	return nil
}
