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

	// TestSubmissions 按是否满分统计测验提交
	TestSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_test_submissions_total",
			Help: "Total number of graded test submissions",
		},
		[]string{"outcome"},
	)

	ResultScoreRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lms_result_score_ratio",
			Help:    "Score divided by total marks for each graded submission",
			Buckets: []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
		},
	)

	EnrollmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_enrollment_transitions_total",
			Help: "Enrollment state transitions",
		},
		[]string{"transition"},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(TestSubmissions)
		prometheus.MustRegister(ResultScoreRatio)
		prometheus.MustRegister(EnrollmentTransitions)
	})
}

// ObserveSubmission 记录一次评分结果
func ObserveSubmission(score, total int) {
	outcome := "partial"
	switch {
	case total > 0 && score == total:
		outcome = "perfect"
	case score == 0:
		outcome = "zero"
	}
	TestSubmissions.WithLabelValues(outcome).Inc()
	if total > 0 {
		ResultScoreRatio.Observe(float64(score) / float64(total))
	}
}

func ObserveEnrollment(transition string) {
	EnrollmentTransitions.WithLabelValues(transition).Inc()
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
