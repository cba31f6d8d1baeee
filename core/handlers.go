package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handlers interface {
	PostEvents(gctx *gin.Context)
	GetEvents(gctx *gin.Context)
	GetEvent(gctx *gin.Context)
	PatchEventStatus(gctx *gin.Context)
}

type handlers struct {
	scheduler Scheduler
}

func NewHandlers(scheduler Scheduler) Handlers {
	return &handlers{scheduler: scheduler}
}

// ConflictResponse is the 409 payload: how many approved events the candidate
// window collides with and their titles, so the caller can decide whether to
// confirm.
type ConflictResponse struct {
	Message   string   `json:"message"`
	Count     int      `json:"count"`
	Conflicts []string `json:"conflicts"`
}

func (h *handlers) PostEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	identity, ok := CurrentIdentity(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("missing identity", ErrMissingIdentity))
		return
	}

	var proposal Proposal

	// Accepts a JSON payload with title, description, start_time, end_time,
	// optional budget and the overlap confirmation flag.
	err := gctx.ShouldBindJSON(&proposal)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	event, err := h.scheduler.Submit(ctx, identity, proposal)
	if err != nil {
		h.abortWithError(gctx, "submitting proposal failed", err)
		return
	}

	// Returns the created pending event as JSON with HTTP 201 status.
	gctx.JSON(http.StatusCreated, event)
}

func (h *handlers) GetEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	identity, ok := CurrentIdentity(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("missing identity", ErrMissingIdentity))
		return
	}

	// Returns the ledger filtered for the viewer: employees see their own
	// events plus approved ones, approvers and admins see everything.
	events, err := h.scheduler.Events(ctx, identity)
	if err != nil {
		h.abortWithError(gctx, "listing events failed", err)
		return
	}

	gctx.JSON(http.StatusOK, events)
}

func (h *handlers) GetEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	identity, ok := CurrentIdentity(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("missing identity", ErrMissingIdentity))
		return
	}

	id := gctx.Param("id")
	if len(id) == 0 {
		log.Ctx(ctx).Error().Msg("parameter 'id' is required")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' is required"))

		return
	}

	event, err := h.scheduler.EventById(ctx, identity, id)
	if err != nil {
		h.abortWithError(gctx, "getting event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PatchEventStatus(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	identity, ok := CurrentIdentity(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("missing identity", ErrMissingIdentity))
		return
	}

	id := gctx.Param("id")
	if len(id) == 0 {
		log.Ctx(ctx).Error().Msg("parameter 'id' is required")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' is required"))

		return
	}

	var body struct {
		Status   Status `json:"status"`
		Decision        // remarks + confirm_overlap
	}

	err := gctx.ShouldBindJSON(&body)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	event, err := h.scheduler.Transition(ctx, identity, id, body.Status, body.Decision)
	if err != nil {
		h.abortWithError(gctx, "transition failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

// abortWithError maps the core error taxonomy onto HTTP statuses. Overlap
// conflicts get their own payload so callers can surface titles and counts.
func (h *handlers) abortWithError(gctx *gin.Context, message string, err error) {
	ctx := gctx.Request.Context()

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		log.Ctx(ctx).Info().Int("conflicts", len(conflict.Conflicts)).Str("stage", conflict.Stage).Msg("overlap conflict")
		gctx.AbortWithStatusJSON(http.StatusConflict, ConflictResponse{
			Message:   fmt.Sprintf("this event overlaps %d approved event(s)", len(conflict.Conflicts)),
			Count:     len(conflict.Conflicts),
			Conflicts: conflict.Titles(),
		})

		return
	}

	switch {
	case errors.Is(err, ErrEventNotFound):
		log.Ctx(ctx).Info().Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", err))
	case errors.Is(err, ErrPermissionDenied):
		log.Ctx(ctx).Info().Msg("permission denied")
		gctx.AbortWithStatusJSON(http.StatusForbidden, NewError("permission denied", err))
	case errors.Is(err, ErrTransitionCancelled):
		log.Ctx(ctx).Info().Msg("transition cancelled by caller")
		gctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, NewError("transition cancelled: no remarks decision provided", err))
	case errors.Is(err, ErrEventFinalized):
		log.Ctx(ctx).Info().Msg("event already finalized")
		gctx.AbortWithStatusJSON(http.StatusConflict, NewError("event already approved or rejected", err))
	case errors.Is(err, ErrInvalidTargetStatus):
		log.Ctx(ctx).Error().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(message, err))
	case errors.As(err, new(*ValidationError)):
		log.Ctx(ctx).Error().Err(err).Msg("validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("validation failed", err))
	default:
		log.Ctx(ctx).Error().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError(message, err))
	}
}
