package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/middleware"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		Where("id = ? AND company_id = ?", middleware.UserID(c), middleware.CompanyID(c)).
		First(&user).Error; err != nil {

		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userJSON(&user),
		"company": user.Company,
	})
}
