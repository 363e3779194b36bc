package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/regrid-api/internal/usecase"
)

// Handler handles HTTP requests for regridding operations.
type Handler struct {
	regridUC *usecase.RegridUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(regridUC *usecase.RegridUseCase) *Handler {
	return &Handler{
		regridUC: regridUC,
	}
}

// GetDatasets handles GET /v1/datasets.
func (h *Handler) GetDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"datasets": h.regridUC.ListDatasets(),
	})
}

// GetVariables handles GET /v1/datasets/:name/variables.
func (h *Handler) GetVariables(c *gin.Context) {
	name := c.Param("name")
	variables, err := h.regridUC.ListVariables(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset":   name,
		"variables": variables,
	})
}

// PostRegrid handles POST /v1/regrid.
func (h *Handler) PostRegrid(c *gin.Context) {
	var req usecase.RegridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.regridUC.Execute(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// PostTripleGrid handles POST /v1/triples/grid.
func (h *Handler) PostTripleGrid(c *gin.Context) {
	var req usecase.TripleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.regridUC.ExecuteTriples(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
