// Package handlers – chat endpoint
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academix/academic-api/internal/http/middleware"
	"github.com/academix/academic-api/internal/services"
)

// ChatAskRequest is the body of POST /chat/ask.
type ChatAskRequest struct {
	// Question is the student's question. Must not be blank.
	Question string `json:"question" binding:"required,notblank" example:"¿Qué es la recursividad?"`
	// Lang selects the answer language.
	Lang string `json:"lang" binding:"required,oneof=es en" example:"es"`
	// Context is the academic context tag.
	Context string `json:"context" binding:"required,oneof=academic_general" example:"academic_general"`
}

// ChatAskResponse carries the answer text. Degraded provider answers are
// returned here too, labeled in the text itself.
type ChatAskResponse struct {
	Answer string `json:"answer" example:"La recursividad es..."`
}

// Ask godoc
// @Summary      Ask the academic assistant
// @Description  Rate limited per client (user or IP). Identical prompts are answered from cache.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      ChatAskRequest  true  "Question"
// @Success      200   {object}  ChatAskResponse
// @Header       200   {string}  X-Cache  "HIT or MISS"
// @Failure      400   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /chat/ask [post]
func (h *Handlers) Ask(c *gin.Context) {
	var req ChatAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err))
		return
	}

	ans, err := h.chatSvc.Ask(c.Request.Context(), services.ChatRequest{
		Question: req.Question,
		Lang:     req.Lang,
		Context:  req.Context,
	}, middleware.ClientKey(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.Header("Retry-After", "60")
			fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "too many requests, please retry later")
		case errors.Is(err, services.ErrEmptyQuestion),
			errors.Is(err, services.ErrUnsupportedLang),
			errors.Is(err, services.ErrUnsupportedContext):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, services.ErrInternalAI.Error())
		}
		return
	}

	if ans.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	ok(c, http.StatusOK, ChatAskResponse{Answer: ans.Answer})
}
