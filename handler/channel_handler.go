package handler

import (
	"errors"
	"net/http"
	"vidtube-api/common"
	"vidtube-api/service"
)

type ChannelHandler struct {
	channelService *service.ChannelService
}

func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// ChannelProfile godoc
// @Summary      Return a channel's public profile with subscription aggregates
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Channel handle"
// @Success      200 {object} common.ApiResponse
// @Failure      404 {object} common.AppError
// @Router       /api/v1/users/channel/{username} [get]
func (h *ChannelHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	handle := r.PathValue("username")
	if handle == "" {
		return common.NewValidationError("Channel handle is required", nil)
	}

	callerID := 0
	if user, ok := userFromContext(r); ok {
		callerID = user.ID
	}

	profile, err := h.channelService.GetChannelProfile(r.Context(), handle, callerID)
	if err != nil {
		if errors.Is(err, service.ErrChannelNotFound) {
			return common.NewNotFoundError("Channel does not exist")
		}
		return common.NewInternalError("Failed to load channel profile", err)
	}

	common.Respond(w, http.StatusOK, profile, "Channel profile fetched successfully")
	return nil
}

// WatchHistory godoc
// @Summary      Return the caller's watch history, most recent first
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.ApiResponse
// @Failure      401 {object} common.AppError
// @Router       /api/v1/users/watch-history [get]
func (h *ChannelHandler) WatchHistory(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	history, err := h.channelService.GetWatchHistory(r.Context(), user.ID)
	if err != nil {
		return common.NewInternalError("Failed to load watch history", err)
	}

	common.Respond(w, http.StatusOK, history, "Watch history fetched successfully")
	return nil
}
