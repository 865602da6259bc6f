// Package server exposes the engine over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"unify/internal/engine"
	"unify/internal/query"
)

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// QueryResponse is the POST /query success body.
type QueryResponse struct {
	TraceID string              `json:"trace_id"`
	Status  engine.Status       `json:"status"`
	Columns []string            `json:"columns"`
	Rows    [][]string          `json:"rows"`
	Sources []engine.Diagnostic `json:"sources"`
}

// parseErrorBody mirrors ParseError for clients, with the token
// position in bytes.
type parseErrorBody struct {
	TraceID  string `json:"trace_id"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message"`
}

// New builds the HTTP API over an engine.
func New(eng *engine.Engine, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/query", func(c *gin.Context) {
		traceID := uuid.NewString()

		var req QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"trace_id": traceID,
				"message":  "body must be JSON with a non-empty query field",
			})
			return
		}

		answer, err := eng.Answer(c.Request.Context(), req.Query)
		if err != nil {
			if perr, ok := query.AsParseError(err); ok {
				logger.Info("query rejected",
					zap.String("trace_id", traceID),
					zap.String("kind", string(perr.Kind)),
					zap.Int("position", perr.Pos))
				c.JSON(http.StatusBadRequest, parseErrorBody{
					TraceID:  traceID,
					Kind:     string(perr.Kind),
					Position: perr.Pos,
					Token:    perr.Token,
					Message:  perr.Error(),
				})
				return
			}
			logger.Error("query failed", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"trace_id": traceID, "message": "internal error"})
			return
		}

		logger.Info("query answered",
			zap.String("trace_id", traceID),
			zap.String("status", string(answer.Status)),
			zap.Int("rows", len(answer.Table.Rows)))

		c.JSON(http.StatusOK, QueryResponse{
			TraceID: traceID,
			Status:  answer.Status,
			Columns: answer.Table.Columns,
			Rows:    answer.Table.Rows,
			Sources: answer.Sources,
		})
	})

	return r
}
