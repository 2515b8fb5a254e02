package handlers

import (
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body and converts any decode failure to the
// uniform 400 envelope. Field-level rules live in the handlers, which own
// the exact validation order and messages.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body.")
		return false
	}

	return true
}
