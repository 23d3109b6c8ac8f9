package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/offentlig-fagnett/backend/apperror"
	"github.com/rs/zerolog/log"
)

// abortWithError renders the shared error envelope. Internal details never
// reach the client; they go to the log.
func abortWithError(ctx *gin.Context, err error) {
	kind := apperror.KindOf(err)
	message := err.Error()

	if kind == apperror.KindInternal {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("request failed")
		message = "internal error"
	}

	ctx.AbortWithStatusJSON(apperror.HTTPStatus(err), gin.H{
		"error": gin.H{
			"kind":    kind,
			"message": message,
		},
	})
}
