// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/types"
)

// FeedbackServiceInterface defines the feedback service methods needed by
// the handler.
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, req *types.FeedbackCreate) (*types.Feedback, error)
	List(ctx context.Context) ([]*types.Feedback, error)
	Get(ctx context.Context, id string) (*types.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status string) (*types.Feedback, error)
	Delete(ctx context.Context, id string) error
}

// FeedbackHandler handles the feedback endpoints.
type FeedbackHandler struct {
	service FeedbackServiceInterface
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(service FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return false
	}
	return true
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Submit new customer feedback and trigger notification emails
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackCreate  true  "Feedback payload"
// @Success      201   {object}  types.APIResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      429   {object}  types.APIResponse
// @Failure      500   {object}  types.APIResponse
// @Router       /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "Feedback submitted successfully",
		Data:    fb,
	})
}

// ListFeedbacks godoc
// @Summary      List all feedback
// @Description  Returns all feedback records, newest first
// @Tags         feedback
// @Produce      json
// @Success      200  {object}  types.APIResponse
// @Failure      500  {object}  types.APIResponse
// @Router       /feedbacks [get]
func (h *FeedbackHandler) ListFeedbacks(c *gin.Context) {
	feedbacks, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	count := len(feedbacks)
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Count:   &count,
		Data:    feedbacks,
	})
}

// GetFeedback godoc
// @Summary      Get one feedback record
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  types.APIResponse
// @Failure      400  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	fb, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    fb,
	})
}

// UpdateFeedbackStatus godoc
// @Summary      Update feedback status
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Feedback ID"
// @Param        body  body      types.FeedbackStatusUpdate  true  "New status"
// @Success      200   {object}  types.APIResponse
// @Failure      400   {object}  types.APIResponse
// @Failure      404   {object}  types.APIResponse
// @Router       /feedback/{id}/status [put]
func (h *FeedbackHandler) UpdateFeedbackStatus(c *gin.Context) {
	var req types.FeedbackStatusUpdate
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "Feedback status updated",
		Data:    fb,
	})
}

// DeleteFeedback godoc
// @Summary      Delete a feedback record
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  types.APIResponse
// @Failure      400  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "Feedback deleted successfully",
	})
}
