package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"supplysim/internal/api/handlers"
	"supplysim/internal/api/middleware"
	"supplysim/internal/service"
)

// NewRouter wires the dataset endpoints onto a gin engine.
func NewRouter(datasets *service.DatasetService, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if normalized, allowAll := normalizeAllowedOrigins(allowedOrigins); allowAll {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	} else if len(normalized) > 0 {
		corsConfig.AllowOrigins = normalized
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	datasetHandler := handlers.NewDatasetHandler(datasets)
	apiGroup := router.Group("/api/v1/datasets")
	{
		apiGroup.POST("/generate", datasetHandler.Generate)
		apiGroup.GET("/summary", datasetHandler.GetSummary)
		apiGroup.GET("/profiles", datasetHandler.GetProfiles)
		apiGroup.GET("/weather", datasetHandler.GetWeather)
		apiGroup.GET("/orders", datasetHandler.GetOrders)
		apiGroup.GET("/inventory", datasetHandler.GetInventory)
		apiGroup.GET("/shipments", datasetHandler.GetShipments)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
