package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message        *string `json:"message"`
	ConversationID string  `json:"conversation_id"`
}

type chatResponse struct {
	Response       string            `json:"response"`
	ConversationID string            `json:"conversation_id"`
	TasksAffected  []getTaskResponse `json:"tasks_affected"`
	ActionType     string            `json:"action_type"`
}

func (h *handlerImpl) HandleChat(c *gin.Context) {
	var req chatRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	if req.Message == nil {
		abort(c, newValidationError("message", errMessageRequired))
		return
	}

	h.logger.Info().
		Str("conversation_id", req.ConversationID).
		Int("message_length", len(*req.Message)).
		Msg("received chat message")

	exchange := h.agent.Handle(c, *req.Message, req.ConversationID)
	c.JSON(http.StatusOK, chatResponse{
		Response:       exchange.Response,
		ConversationID: exchange.ConversationID,
		TasksAffected:  newGetTasksResponse(exchange.TasksAffected),
		ActionType:     exchange.ActionType,
	})
}

func (h *handlerImpl) HandleChatHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"agent":  "ready",
	})
}
