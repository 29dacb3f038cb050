package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"trivia-backend/internal/models"
	"trivia-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope every failed request answers with.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   int    `json:"error" example:"404"`
	Message string `json:"message" example:"resource not found"`
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

func NewErrorResponse(status int) ErrorResponse {
	msg, ok := errorMessages[status]
	if !ok {
		msg = strings.ToLower(http.StatusText(status))
	}
	return ErrorResponse{Success: false, Error: status, Message: msg}
}

func abortWithStatus(c *gin.Context, status int) {
	c.AbortWithStatusJSON(status, NewErrorResponse(status))
}

// abortWithError maps service errors onto the envelope. Anything that is not a
// known sentinel is logged and reported as 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		abortWithStatus(c, http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		abortWithStatus(c, http.StatusUnprocessableEntity)
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithStatus(c, http.StatusInternalServerError)
	}
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	abortWithStatus(c, http.StatusNotFound)
}

// MethodNotAllowed answers known paths requested with the wrong verb.
func MethodNotAllowed(c *gin.Context) {
	abortWithStatus(c, http.StatusMethodNotAllowed)
}

// Recovery is a gin.RecoveryFunc that turns panics into the 500 envelope.
func Recovery(c *gin.Context, recovered any) {
	log.Printf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	abortWithStatus(c, http.StatusInternalServerError)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parsePage(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// FlexInt accepts a JSON number or a numeric string; the web client posts
// select values as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// Type aliases so swag can resolve models in annotations.
type Question = models.Question
type Category = models.Category
