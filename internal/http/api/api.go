package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commonshq/reserva/internal/http/middleware"
	"github.com/commonshq/reserva/internal/model"
)

type APIError struct {
	Code    int
	Message string

	// Details optionally carries a structured payload alongside the error,
	// e.g. the per-occurrence conflict list on a rejected booking.
	Details any
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, errorBody(apiErr))
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func errorBody(apiErr *APIError) gin.H {
	body := gin.H{"error": apiErr.Message}
	if apiErr.Details != nil {
		body["details"] = apiErr.Details
	}
	return body
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, errorBody(apiErr))
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}
