package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and database checks.
type SystemHandler struct {
	DB *sql.DB
}

func (h SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	var one int
	if err := h.DB.QueryRowContext(c.Request.Context(), "SELECT 1").Scan(&one); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}
