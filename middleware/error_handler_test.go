package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/xpress-inn/feedback-api/errors"
)

func errorHandlerRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", handler)
	return r
}

func serveBoom(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	r := errorHandlerRouter(handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w
}

func TestErrorHandler_AppError(t *testing.T) {
	w := serveBoom(func(c *gin.Context) {
		_ = c.Error(apperrors.FeedbackNotFound("abc"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Feedback not found"}`, w.Body.String())
}

func TestErrorHandler_WrappedAppError(t *testing.T) {
	w := serveBoom(func(c *gin.Context) {
		wrapped := fmt.Errorf("lookup failed: %w", apperrors.FeedbackNotFound("abc"))
		_ = c.Error(wrapped)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Feedback not found"}`, w.Body.String())
}

func TestErrorHandler_BindError(t *testing.T) {
	w := serveBoom(func(c *gin.Context) {
		_ = c.Error(errors.New("EOF")).SetType(gin.ErrorTypeBind)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid request body"}`, w.Body.String())
}

func TestErrorHandler_UnknownError(t *testing.T) {
	w := serveBoom(func(c *gin.Context) {
		_ = c.Error(errors.New("something unexpected"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}
