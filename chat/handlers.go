package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quizroom/domain"
)

type ChatService interface {
	Append(ctx context.Context, roomId, authorId, body string) (domain.ChatMessage, error)
	List(ctx context.Context, roomId string) ([]domain.ChatMessage, error)
}

type Handler struct {
	chatService ChatService
	log         zerolog.Logger
}

func NewHandler(service ChatService, log zerolog.Logger) *Handler {
	return &Handler{chatService: service, log: log}
}

func (h *Handler) SendChatHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	if id == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	var body struct {
		Message string `json:"message" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	message, err := h.chatService.Append(ctx.Request.Context(), ctx.Param("roomid"), id, body.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTooManyMessages):
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		default:
			h.log.Error().Err(err).Msg("chat append failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) ListChatHandler(ctx *gin.Context) {
	messages, err := h.chatService.List(ctx.Request.Context(), ctx.Param("roomid"))
	if err != nil {
		h.log.Error().Err(err).Msg("chat list failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}
