package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"supplysim/internal/domain"
	"supplysim/internal/service"
)

type DatasetHandler struct {
	datasets *service.DatasetService
}

func NewDatasetHandler(datasets *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasets: datasets}
}

// Generate runs a fresh generation pass and returns its summary.
func (h *DatasetHandler) Generate(c *gin.Context) {
	summary, err := h.datasets.Generate(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "generation failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DatasetHandler) GetSummary(c *gin.Context) {
	summary, err := h.datasets.Summary(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DatasetHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.datasets.Profiles()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (h *DatasetHandler) GetWeather(c *gin.Context) {
	page, err := h.datasets.Weather(parseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *DatasetHandler) GetOrders(c *gin.Context) {
	page, err := h.datasets.Orders(parseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *DatasetHandler) GetInventory(c *gin.Context) {
	page, err := h.datasets.Inventory(parseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *DatasetHandler) GetShipments(c *gin.Context) {
	page, err := h.datasets.Shipments(parseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *DatasetHandler) respondErr(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoDataset) {
		errorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	errorResponse(c, http.StatusInternalServerError, err.Error())
}

func parseFilter(c *gin.Context) service.TableFilter {
	filter := service.TableFilter{
		Page:     1,
		PageSize: 100,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "100")); err == nil && size > 0 {
		filter.PageSize = size
	}
	filter.Region = strings.TrimSpace(c.Query("region"))
	filter.SKUID = strings.TrimSpace(c.Query("sku_id"))

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if d, err := time.Parse(domain.DateLayout, from); err == nil {
			filter.FromDate = d
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if d, err := time.Parse(domain.DateLayout, to); err == nil {
			filter.ToDate = d
		}
	}

	return filter
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
