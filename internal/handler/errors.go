package handler

import (
	"errors"
	"net/http"

	"examprep-backend/internal/gateway"
	"examprep-backend/internal/service"
	"examprep-backend/internal/storage"
	"examprep-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP status and body.
func errorStatus(err error) (int, gin.H) {
	var (
		validation *service.ValidationError
		parseErr   *gateway.ParseError
		requestErr *gateway.RequestError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, gin.H{"error": validation.Msg}
	case errors.Is(err, storage.ErrSessionNotFound):
		return http.StatusNotFound, gin.H{"error": "Session not found"}
	case errors.Is(err, service.ErrDiagramNotFound):
		return http.StatusNotFound, gin.H{"error": "Diagram not found"}
	case errors.Is(err, gateway.ErrTimeout):
		return http.StatusGatewayTimeout, gin.H{"error": "Error generating questions: " + err.Error()}
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, gin.H{
			"error": "Failed to parse the response as JSON. Raw response is included.",
			"raw":   parseErr.Raw,
		}
	case errors.As(err, &requestErr):
		return http.StatusBadGateway, gin.H{"error": "Error generating questions: " + requestErr.Err.Error()}
	default:
		logger.Errorf("unhandled error: %v", err)
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	}
}

func abortWithError(c *gin.Context, err error) {
	status, body := errorStatus(err)
	c.AbortWithStatusJSON(status, body)
}
