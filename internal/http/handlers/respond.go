package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response uses the same {status, message} envelope, with optional
// token / data / error members. Business failures never leak internals;
// the one exception is the error string on the 500 paths.

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"status":  status,
		"message": message,
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusBadRequest, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusUnauthorized, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusNotFound, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusConflict, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondMessage(ctx, http.StatusInternalServerError, message)
}

// RespondInternalErr carries the diagnostic string of the underlying
// failure, matching the read/delete paths' behavior.
func RespondInternalErr(ctx *gin.Context, message string, err error) {
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"status":  http.StatusInternalServerError,
		"message": message,
		"error":   err.Error(),
	})
}
