// Package handlers – question bank endpoints
//
// Publish accepts a generated question and reports created, duplicate or
// invalid. With an Idempotency-Key a retried publish returns the first
// outcome without running the gate again.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/http/middleware"
	"github.com/academix/academic-api/internal/services"
	"github.com/academix/academic-api/internal/utils"
)

// PublishRequest is the body of POST /exams-chat/publish. Text is a pointer
// so a missing field is told apart from an empty one; a non-string text
// fails binding.
type PublishRequest struct {
	Text       *string  `json:"text" example:"¿Cuál es la complejidad de quicksort en el caso medio?"`
	Type       string   `json:"type,omitempty" binding:"omitempty,oneof=multiple_choice true_false" example:"multiple_choice"`
	Options    []string `json:"options,omitempty" binding:"omitempty,max=4,dive,notblank"`
	Source     string   `json:"source,omitempty" binding:"omitempty,max=64" example:"ai"`
	Confidence *float64 `json:"confidence,omitempty" binding:"omitempty,min=0,max=1" example:"0.82"`
}

// PublishResponse reports the gate outcome. QuestionID is omitted for
// duplicates.
type PublishResponse struct {
	Result     string `json:"result" example:"created" enums:"created,duplicate,invalid"`
	QuestionID string `json:"questionId,omitempty" example:"6f1c1c84-5d84-4c3e-9d0e-6a3f1f6f9d10"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListQuestionsResponse is a page of stored questions.
type ListQuestionsResponse struct {
	Questions  []domain.Question `json:"questions"`
	Pagination Pagination        `json:"pagination"`
}

// PublishQuestion godoc
// @Summary      Publish a generated question
// @Description  Normalizes the text, rejects duplicates of stored questions and applies the confidence gate. Low-confidence questions are stored and reported invalid.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string          false  "Replay key"
// @Param        body             body      PublishRequest  true   "Candidate question"
// @Success      200              {object}  PublishResponse
// @Header       200              {string}  Idempotency-Replayed  "true on replays"
// @Failure      400              {object}  ErrorResponse
// @Failure      429              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Router       /exams-chat/publish [post]
func (h *Handlers) PublishQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.IdempotencyUser(c)
	idemKey, _ := middleware.GetIdempotencyKey(c)

	if idemKey != "" && h.idem != nil {
		if rec, err := h.idem.Get(ctx, user, ScopePublish, idemKey, h.now()); err == nil && rec != nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, rec.Status, PublishResponse{Result: rec.Result, QuestionID: rec.QuestionID})
			return
		}
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err))
		return
	}

	res, err := h.questionSvc.Publish(ctx, services.PublishInput{
		Text:       req.Text,
		Type:       req.Type,
		Options:    req.Options,
		Source:     req.Source,
		Confidence: req.Confidence,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuestion) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodePublishFailed, "failed to publish question")
		return
	}

	if idemKey != "" && h.idem != nil {
		ttl := h.IdemTTL
		if ttl <= 0 {
			ttl = DefaultIdempotencyTTL
		}
		if err := h.idem.Save(ctx, user, ScopePublish, idemKey, res.Result, res.QuestionID, http.StatusOK, ttl); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}

	ok(c, http.StatusOK, PublishResponse{Result: res.Result, QuestionID: res.QuestionID})
}

// ListQuestions godoc
// @Summary      List stored questions
// @Description  Newest first. Includes questions flagged invalid by the gate.
// @Tags         questions
// @Produce      json
// @Param        page       query     int  false  "Page (>=1)"       default(1)
// @Param        page_size  query     int  false  "Page size (1-100)" default(20)
// @Success      200        {object}  ListQuestionsResponse
// @Failure      500        {object}  ErrorResponse
// @Router       /exams-chat/questions [get]
func (h *Handlers) ListQuestions(c *gin.Context) {
	page, size := utils.ClampPage(c.Query("page"), c.Query("page_size"))

	items, total, err := h.questionSvc.ListPage(c.Request.Context(), page, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to list questions")
		return
	}
	pages := utils.TotalPages(total, size)
	ok(c, http.StatusOK, ListQuestionsResponse{
		Questions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   size,
			Total:      total,
			TotalPages: pages,
			HasNext:    page < pages,
		},
	})
}

// PromoteQuestion godoc
// @Summary      Promote a stored question to published
// @Description  Fails with 422 when the option count does not match the question type (4 for multiple_choice, 2 for true_false).
// @Tags         questions
// @Produce      json
// @Param        id   path      string  true  "Question ID"
// @Success      200  {object}  domain.Question
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /exams-chat/questions/{id}/promote [post]
func (h *Handlers) PromoteQuestion(c *gin.Context) {
	q, err := h.questionSvc.Promote(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrQuestionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
	case errors.Is(err, services.ErrCannotPublish):
		fail(c, http.StatusUnprocessableEntity, ErrCodeCannotPublish, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to promote question")
	default:
		ok(c, http.StatusOK, q)
	}
}
