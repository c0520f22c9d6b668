// Package dashboard serves the latest analysis snapshot and its history over
// HTTP. The relay posts a snapshot after every completed analysis; the web
// frontend polls GET /api/analysis for the most recent one.
package dashboard

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Bloomy-HackRPI/bloomy/internal/logger"
	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// Server holds the latest snapshot in memory and appends history to the
// database. The in-memory latest value resets on restart; history survives.
type Server struct {
	db *gorm.DB

	mu          sync.Mutex
	latest      *models.AnalysisRecord
	lastMention string

	httpServer *http.Server
}

// NewServer creates a dashboard server backed by db.
func NewServer(db *gorm.DB) *Server {
	return &Server{db: db}
}

// Routes builds the gin engine with all dashboard endpoints.
func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/analysis", s.getLatest)
		api.POST("/analysis", s.postAnalysis)
		api.GET("/analyses", s.getHistory)
		api.GET("/stats", s.getStats)
		api.GET("/mention", s.getLastMention)
		api.POST("/mention", s.postMention)
	}

	return r
}

// Start begins serving on addr. Blocks until the listener fails or Stop is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	logger.Info("Dashboard listening on %s", addr)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the HTTP listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// getLatest returns the last-written snapshot, or an empty record when no
// analysis has run yet (matching the frontend's zero-state expectations).
func (s *Server) getLatest(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		c.JSON(http.StatusOK, models.AnalysisRecord{})
		return
	}
	c.JSON(http.StatusOK, s.latest)
}

// postAnalysis stores a new snapshot and appends it to history.
func (s *Server) postAnalysis(c *gin.Context) {
	var record models.AnalysisRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.latest = &record
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Create(&record).Error; err != nil {
			logger.Warn("Failed to persist analysis record: %v", err)
		}
	}

	logger.Info("Updated analysis for %s: %s", record.Stock, record.Sentiment)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getHistory returns the most recent analysis records, newest first.
func (s *Server) getHistory(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, []models.AnalysisRecord{})
		return
	}

	var records []models.AnalysisRecord
	if err := s.db.Order("created_at desc").Limit(50).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// getStats returns analysis counts grouped by sentiment.
func (s *Server) getStats(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"total": 0, "by_sentiment": gin.H{}})
		return
	}

	var total int64
	if err := s.db.Model(&models.AnalysisRecord{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	type row struct {
		Sentiment string
		Count     int64
	}
	var rows []row
	if err := s.db.Model(&models.AnalysisRecord{}).
		Select("sentiment, count(*) as count").
		Group("sentiment").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	bySentiment := gin.H{}
	for _, r := range rows {
		bySentiment[r.Sentiment] = r.Count
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "by_sentiment": bySentiment})
}

// postMention records the text of the latest bot mention.
func (s *Server) postMention(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	s.lastMention = body.Text
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getLastMention returns the latest recorded mention text.
func (s *Server) getLastMention(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"text": s.lastMention})
}
