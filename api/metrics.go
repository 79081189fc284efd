package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsTotal counts handled requests by route and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftboard_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks handler latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swiftboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TransformsTotal counts graph conversions by direction and outcome.
	TransformsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swiftboard_workflow_transforms_total",
			Help: "Workflow graph conversions performed by the API",
		},
		[]string{"direction", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(TransformsTotal)
}

func instrument(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	route := c.Route().Path
	RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
	return err
}

func recordTransform(direction string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	TransformsTotal.WithLabelValues(direction, outcome).Inc()
}
