package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/config"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/utils"
)

type UserHandler struct {
	cfg    *config.Configuration
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserHandler(cfg *config.Configuration, db *gorm.DB, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		cfg:    cfg,
		db:     db,
		logger: logger.With(zap.String("handler", "user")),
	}
}

func (uh *UserHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, toUserView(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (uh *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if ok, err := utils.VerifyPassword(user.PasswordHash, req.CurrentPassword); !ok || err != nil {
		httputil.Error(c, http.StatusBadRequest, "current password is incorrect")
		return
	}
	if len(req.NewPassword) < uh.cfg.Security.PasswordMinLength {
		httputil.Error(c, http.StatusBadRequest, "new password is too short")
		return
	}

	hash, err := utils.EncryptPassword(req.NewPassword)
	if err != nil {
		uh.logger.Error("Failed to hash password", zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	if err := uh.db.Model(user).Update("password_hash", hash).Error; err != nil {
		uh.logger.Error("Failed to update password", zap.Uint("user_id", user.ID), zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Status(http.StatusNoContent)
}
