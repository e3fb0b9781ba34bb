package middleware

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error envelope and records err on the
// context so the request logger sees the cause.
func AbortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusOf(kind), gin.H{
		"error": errorBody{Kind: kind, Message: apperr.MessageOf(err)},
	})
}
