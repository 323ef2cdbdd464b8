package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quizroom/domain"
)

const defaultMaxPlayers = 4

type RoomService interface {
	Create(ctx context.Context, requesterId, name string, maxPlayers int) (domain.Room, error)
	Join(ctx context.Context, roomId, requesterId string) (domain.Room, error)
	Start(ctx context.Context, roomId, requesterId string) (domain.Room, error)
	SubmitAnswer(ctx context.Context, roomId, requesterId, answer string) (bool, int, error)
	Advance(ctx context.Context, roomId, requesterId string) (domain.Room, error)
	Get(ctx context.Context, roomId string) (domain.Room, error)
}

type Handler struct {
	roomService RoomService
	log         zerolog.Logger
}

func NewHandler(service RoomService, log zerolog.Logger) *Handler {
	return &Handler{roomService: service, log: log}
}

// requesterId returns the id set by the auth middleware, failing the
// request if it is missing (which would mean a route wiring bug).
func (h *Handler) requesterId(ctx *gin.Context) (string, bool) {
	id := ctx.GetString("id")
	if id == "" {
		h.log.Error().
			Str("ip", ctx.ClientIP()).
			Str("path", ctx.FullPath()).
			Msg("authenticated route reached without an id")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return "", false
	}
	return id, true
}

func (h *Handler) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrGameAlreadyStarted),
		errors.Is(err, ErrGameNotInProgress),
		errors.Is(err, ErrAnswerWindowClosed),
		errors.Is(err, ErrInvalidMaxPlayers):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, ErrNotHost), errors.Is(err, ErrNotAMember):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": "server-timeout"})

	case errors.Is(err, context.Canceled):
		ctx.Status(499) // http code for "Client Closed Request"

	default:
		h.log.Error().Err(err).Str("path", ctx.FullPath()).Msg("room operation failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
	}
}

func (h *Handler) CreateRoomHandler(ctx *gin.Context) {
	id, ok := h.requesterId(ctx)
	if !ok {
		return
	}

	var body struct {
		RoomName   string `json:"roomName" binding:"required"`
		MaxPlayers int    `json:"maxPlayers"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	if body.MaxPlayers == 0 {
		body.MaxPlayers = defaultMaxPlayers
	}

	room, err := h.roomService.Create(ctx.Request.Context(), id, body.RoomName, body.MaxPlayers)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": NewRoomView(room)})
}

func (h *Handler) JoinRoomHandler(ctx *gin.Context) {
	id, ok := h.requesterId(ctx)
	if !ok {
		return
	}

	room, err := h.roomService.Join(ctx.Request.Context(), ctx.Param("roomid"), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": NewRoomView(room)})
}

func (h *Handler) StartGameHandler(ctx *gin.Context) {
	id, ok := h.requesterId(ctx)
	if !ok {
		return
	}

	room, err := h.roomService.Start(ctx.Request.Context(), ctx.Param("roomid"), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": NewRoomView(room)})
}

func (h *Handler) SubmitAnswerHandler(ctx *gin.Context) {
	id, ok := h.requesterId(ctx)
	if !ok {
		return
	}

	var body struct {
		Answer string `json:"answer" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	correct, score, err := h.roomService.SubmitAnswer(ctx.Request.Context(), ctx.Param("roomid"), id, body.Answer)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"correct": correct, "score": score})
}

func (h *Handler) AdvanceQuestionHandler(ctx *gin.Context) {
	id, ok := h.requesterId(ctx)
	if !ok {
		return
	}

	room, err := h.roomService.Advance(ctx.Request.Context(), ctx.Param("roomid"), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": NewRoomView(room)})
}

func (h *Handler) GetRoomHandler(ctx *gin.Context) {
	room, err := h.roomService.Get(ctx.Request.Context(), ctx.Param("roomid"))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"room": NewRoomView(room)})
}
