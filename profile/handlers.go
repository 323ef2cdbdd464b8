package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quizroom/domain"
)

const rankingSize = 10

type ProfileService interface {
	Get(ctx context.Context, id string) (domain.UserProfile, error)
	Rankings(ctx context.Context, n int) (top, full []domain.UserProfile, err error)
}

type Handler struct {
	profileService ProfileService
	log            zerolog.Logger
}

func NewHandler(service ProfileService, log zerolog.Logger) *Handler {
	return &Handler{profileService: service, log: log}
}

func (h *Handler) GetProfileHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	profile, err := h.profileService.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("user_id", id).Msg("profile fetch failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Handler) GetRankingsHandler(ctx *gin.Context) {
	top, full, err := h.profileService.Rankings(ctx.Request.Context(), rankingSize)
	if err != nil {
		h.log.Error().Err(err).Msg("rankings fetch failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"rankings": top, "full": full})
}
