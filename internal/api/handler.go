package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hostel-allocation-backend/config"
	"hostel-allocation-backend/internal/auth"
	"hostel-allocation-backend/internal/notification"
	"hostel-allocation-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	pool    *notification.WorkerPool
	otp     *auth.OTPStore
	authCfg *config.AuthConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.AuthConfig, webpushOptions *webpush.Options, pool *notification.WorkerPool, otp *auth.OTPStore) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		pool:    pool,
		otp:     otp,
		authCfg: cfg,
	}
}

// respondStoreError maps the store's error taxonomy onto HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	var nf *store.NotFoundError
	var conflict *store.ConflictError
	var validation *store.ValidationError

	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
