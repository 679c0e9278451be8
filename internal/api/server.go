package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"solarwatch/internal/monitor"
	"solarwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router  *gin.Engine
	server  *http.Server
	monitor *monitor.Monitor
	port    int
}

type ServerConfig struct {
	Port    int
	Monitor *monitor.Monitor
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:  router,
		monitor: cfg.Monitor,
		port:    cfg.Port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthHandler)

	// API routes
	api := s.router.Group("/api/v1")
	{
		api.GET("/readings", s.readingsHandler)
		api.POST("/readings", s.ingestHandler)
		api.GET("/alerts", s.alertsHandler)
		api.GET("/impact", s.impactHandler)
		api.GET("/efficiency/average", s.averageEfficiencyHandler)
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	log.Printf("API server starting on port %d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"active_alerts": len(s.monitor.ActiveAlerts()),
		"timestamp":     time.Now(),
	})
}

func (s *Server) readingsHandler(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	limitStr := c.DefaultQuery("limit", "100")

	var limit int
	fmt.Sscanf(limitStr, "%d", &limit)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date format"})
			return
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date format"})
			return
		}
		to = parsed
	}

	readings, err := s.monitor.Readings(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(readings) > limit {
		readings = readings[:limit]
	}
	c.JSON(http.StatusOK, readings)
}

// IngestRequest is one telemetry reading submitted over the API.
type IngestRequest struct {
	Timestamp     *time.Time `json:"timestamp"`
	PowerProduced float64    `json:"power_produced_w"`
	PowerConsumed float64    `json:"power_consumed_w"`
	BatterySOC    float64    `json:"battery_soc_pct"`
	Irradiance    float64    `json:"irradiance_wm2"`
	Temperature   float64    `json:"temperature_c"`
	PanelVoltage  float64    `json:"panel_voltage_v"`
	PanelCurrent  float64    `json:"panel_current_a"`
}

func (s *Server) ingestHandler(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading := telemetry.Reading{
		PowerProduced: req.PowerProduced,
		PowerConsumed: req.PowerConsumed,
		BatterySOC:    req.BatterySOC,
		Irradiance:    req.Irradiance,
		Temperature:   req.Temperature,
		PanelVoltage:  req.PanelVoltage,
		PanelCurrent:  req.PanelCurrent,
	}
	if req.Timestamp != nil {
		reading.Timestamp = *req.Timestamp
	}

	fired, err := s.monitor.Ingest(reading)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"stored":       true,
		"fired_alerts": fired,
	})
}

func (s *Server) alertsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.ActiveAlerts())
}

func (s *Server) impactHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Impact())
}

func (s *Server) averageEfficiencyHandler(c *gin.Context) {
	avg, ok := s.monitor.AverageEfficiency()
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"defined": false,
			"message": "insufficient samples",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"defined": true,
		"average": avg,
	})
}
