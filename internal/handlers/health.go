package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthResponse struct {
	Success bool   `json:"success" example:"true"`
	Status  string `json:"status" example:"ok"`
}

// Health godoc
// @Summary      Liveness and database check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      500 {object} ErrorResponse
// @Router       /healthz [get]
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Printf("health: %v", err)
		abortWithStatus(c, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Success: true, Status: "ok"})
}
