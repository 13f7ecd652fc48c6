package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/njchilds90/gocas"
	"github.com/njchilds90/gocas/internal/logging"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
)

var tracer trace.Tracer = otel.Tracer("github.com/njchilds90/gocas/cmd/mcp-server")

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gocas_mcp_tool_calls_total",
		Help: "Tool calls by tool and outcome",
	}, []string{"tool", "outcome"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gocas_mcp_tool_duration_seconds",
		Help:    "Tool call latency",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"tool"})
)

var knownTools = func() map[string]bool {
	m := map[string]bool{}
	for _, n := range gocas.ToolNames() {
		m[n] = true
	}
	return m
}()

// metricLabel keeps arbitrary client input out of the label space.
func metricLabel(tool string) string {
	if knownTools[tool] {
		return tool
	}
	return "unknown"
}

func newRouter(log *logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(log))
	r.POST("/tool", handleTool(log))
	r.GET("/schema", handleSchema)
	r.GET("/health", handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// requestID reuses the caller's X-Request-ID or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", c.GetString("request_id"),
			"elapsed", time.Since(start),
		)
	}
}

func handleTool(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		dec := json.NewDecoder(&buf)
		dec.DisallowUnknownFields()
		var req gocas.ToolRequest
		if err := dec.Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if dec.More() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: trailing data"})
			return
		}
		if req.Tool == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tool"})
			return
		}

		_, span := tracer.Start(c.Request.Context(), "tool."+metricLabel(req.Tool),
			trace.WithAttributes(
				attribute.String("gocas.tool", req.Tool),
				attribute.String("request_id", c.GetString("request_id")),
			))
		start := time.Now()
		resp := gocas.HandleToolCall(req)
		elapsed := time.Since(start)
		toolLatency.WithLabelValues(metricLabel(req.Tool)).Observe(elapsed.Seconds())

		outcome := "ok"
		if resp.Error != "" {
			outcome = "error"
			span.SetStatus(codes.Error, resp.Error)
			span.SetAttributes(attribute.String("gocas.error_kind", resp.Kind))
			log.Info("tool error", "tool", req.Tool, "kind", resp.Kind, "err", resp.Error,
				"request_id", c.GetString("request_id"))
		}
		span.End()
		toolCalls.WithLabelValues(metricLabel(req.Tool), outcome).Inc()
		c.JSON(http.StatusOK, resp)
	}
}

func handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(gocas.MCPToolSpec()))
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
