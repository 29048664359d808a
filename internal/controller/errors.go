package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"survey-assessment-backend/internal/service"
	"survey-assessment-backend/utilities"
)

// respondError maps service errors onto HTTP statuses. Anything that is not
// a known client error is logged and reported as 500.
func respondError(c *gin.Context, err error) {
	var incomplete *service.IncompleteAnswersError
	var invalid *service.InvalidAnswerError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missing": incomplete.Missing})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utilities.Error("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// intParam parses a positive integer path parameter, writing a 400 when it
// is malformed.
func intParam(c *gin.Context, name, label string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
		return 0, false
	}
	return v, true
}
