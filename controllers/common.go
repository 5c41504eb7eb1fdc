package controllers

import (
	"net/http"
	"strconv"

	"ufmarketplace_go/utils"

	"github.com/gin-gonic/gin"
)

// handleError maps a service error to its HTTP response.
func handleError(c *gin.Context, err error) {
	utils.HandleError(c, err)
}

// parseIDParam parses a :param path segment as an unsigned id. On failure it
// writes the 400 response and returns false.
func parseIDParam(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return uint(id), true
}
