package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 章节流水线指标
	ChapterProcessedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chapter_processed_total",
			Help: "Total number of chapter processing attempts by outcome",
		},
		[]string{"outcome"}, // completed / failed
	)

	ChapterProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chapter_processing_duration_seconds",
			Help:    "Duration of a full chapter processing attempt",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"source"}, // text / audio
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_generation_duration_seconds",
			Help:    "Duration of a single content generation call",
			Buckets: []float64{1, 5, 15, 30, 60, 120},
		},
		[]string{"kind"}, // course / flashcards / quiz
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ChapterProcessedCounter)
	prometheus.MustRegister(ChapterProcessingDuration)
	prometheus.MustRegister(GenerationDuration)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
