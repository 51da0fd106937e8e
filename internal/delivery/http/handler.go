package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calorietrack/backend/internal/domain"
	"github.com/calorietrack/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   *usecase.SearchService
	pipeline *usecase.EnrichmentPipeline
	nlClient domain.NLClient
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService, pipeline *usecase.EnrichmentPipeline, nlClient domain.NLClient) *Handler {
	return &Handler{
		search:   search,
		pipeline: pipeline,
		nlClient: nlClient,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "calorietrack-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the body of a combined search-and-enrich call.
type searchRequest struct {
	Query string `json:"query"`
	Pages int    `json:"pages"`
}

// streamLine is one NDJSON line of a search stream: either the initial
// light result list or a single enriched item.
type streamLine struct {
	Type    string                    `json:"type"` // "results" or "item"
	Results []domain.EnrichedFoodItem `json:"results,omitempty"`
	Item    *domain.EnrichedFoodItem  `json:"item,omitempty"`
}

// SearchIngredients runs the search-then-enrich workflow and streams it
// as NDJSON: the first line carries the full light result list, then one
// line per enriched item as each detail fetch completes. A client that
// disconnects cancels the run.
func (h *Handler) SearchIngredients(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	run, err := h.search.Search(c.Request.Context(), req.Query, req.Pages)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer run.Cancel()

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	enc.Encode(streamLine{Type: "results", Results: run.Light})
	c.Writer.Flush()

	for item := range run.Items {
		item := item
		enc.Encode(streamLine{Type: "item", Item: &item})
		c.Writer.Flush()
	}
}

// enrichRequest is the body of a standalone enrichment call.
type enrichRequest struct {
	IDs []int `json:"ids" binding:"required"`
}

// EnrichIngredients streams enriched items for the given IDs, one NDJSON
// line per item, in input order.
func (h *Handler) EnrichIngredients(c *gin.Context) {
	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.Writer.Header().Set("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	for item := range h.pipeline.Enrich(c.Request.Context(), req.IDs) {
		item := item
		enc.Encode(streamLine{Type: "item", Item: &item})
		c.Writer.Flush()
	}
}

// parseRequest is the body of an NL parse call.
type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseCommand forwards free text to the NL command service and returns
// the structured command.
func (h *Handler) ParseCommand(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	parsed, err := h.nlClient.Parse(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, parsed)
}

// targetsRequest carries profile metrics for the calorie target
// calculation. Weight may be given in kg or lb, height in cm or as
// feet plus inches; exactly the caller's unit system is accepted.
type targetsRequest struct {
	Sex           string   `json:"sex" binding:"required"`
	Age           int      `json:"age" binding:"required"`
	Activity      string   `json:"activity" binding:"required"`
	WeeklyDeltaKg float64  `json:"weeklyDeltaKg"`
	WeightKg      *float64 `json:"weightKg,omitempty"`
	WeightLb      *float64 `json:"weightLb,omitempty"`
	HeightCm      *float64 `json:"heightCm,omitempty"`
	HeightFeet    *int     `json:"heightFeet,omitempty"`
	HeightInches  *float64 `json:"heightInches,omitempty"`
}

// CalorieTargets computes BMR, TDEE, the suggested daily calorie target
// and BMI for a profile.
func (h *Handler) CalorieTargets(c *gin.Context) {
	var req targetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	metrics, err := req.toMetrics()
	if err != nil {
		h.writeError(c, err)
		return
	}

	targets, err := usecase.ComputeTargets(*metrics)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, targets)
}

// toMetrics normalizes the request's mixed units to the metric profile
// the calculation expects.
func (r *targetsRequest) toMetrics() (*domain.ProfileMetrics, error) {
	metrics := &domain.ProfileMetrics{
		Sex:           domain.Sex(r.Sex),
		Age:           r.Age,
		Activity:      domain.ActivityLevel(r.Activity),
		WeeklyDeltaKg: r.WeeklyDeltaKg,
	}

	switch {
	case r.WeightKg != nil:
		metrics.WeightKg = *r.WeightKg
	case r.WeightLb != nil:
		metrics.WeightKg = usecase.LbToKg(*r.WeightLb)
	default:
		return nil, errors.Join(domain.ErrInvalidInput, errors.New("weight is required (weightKg or weightLb)"))
	}

	switch {
	case r.HeightCm != nil:
		metrics.HeightCm = *r.HeightCm
	case r.HeightFeet != nil && r.HeightInches != nil:
		metrics.HeightCm = usecase.FeetInchesToCm(*r.HeightFeet, *r.HeightInches)
	default:
		return nil, errors.Join(domain.ErrInvalidInput, errors.New("height is required (heightCm or heightFeet+heightInches)"))
	}

	return metrics, nil
}

// writeError maps a domain error to an HTTP response. Cancellation is
// silent: the client went away, nothing useful can be written.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		c.Abort()
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDecode), errors.Is(err, domain.ErrEncode):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed, try again"})
	default:
		var se *domain.StatusError
		if errors.As(err, &se) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream error", "upstreamStatus": se.Code, "upstreamBody": se.Body})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
