package catalogd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/state"
)

// NewRouter exposes the store over HTTP.
func NewRouter(store state.CatalogStore, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", health(store))
	api := r.Group("/api")
	{
		api.GET("/get_server_list", serverList(store))
	}
	return r
}

// GET /api/get_server_list?ordering="Player"|"PlayerReverse"
func serverList(store state.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery("ordering")
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing ordering"})
			return
		}
		ordering, err := catalog.ParseOrdering(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store.Entries(ordering))
	}
}

func health(store state.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "updated_at": nil}
		if at := store.UpdatedAt(); !at.IsZero() {
			body["updated_at"] = at.UTC().Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, body)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds(),
			"remote", c.ClientIP(),
		)
	}
}
