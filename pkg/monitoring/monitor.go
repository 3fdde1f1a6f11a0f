package monitoring

import (
	"strconv"
	"sync"
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

	QuizzesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Quizzes scored and folded into user progress",
		},
		[]string{"mode"},
	)

	QuestionsUnderfilled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_questions_underfilled_total",
			Help: "Questions requested but not delivered because the bank ran short",
		},
		[]string{"mode"},
	)

	QuizAccuracy = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_accuracy_percent",
			Help:    "Accuracy of submitted quizzes",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"mode"},
	)

	MalformedProgress = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_progress_rebuilt_total",
			Help: "Progress records found inconsistent and rebuilt from history",
		},
	)
)

var registerOnce sync.Once

// Init registers collectors once
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizzesSubmitted,
			QuestionsUnderfilled,
			QuizAccuracy,
			MalformedProgress,
		)
	})
}

// MetricsMiddleware request count and latency
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
