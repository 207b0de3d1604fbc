package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/config"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
	"github.com/securecase/securecase/internal/utils"
)

type AuthHandler struct {
	tokens *services.TokenService
	admin  *services.AdminService
	audit  *services.AuditService
	cfg    *config.Configuration
	db     *gorm.DB
	logger *zap.Logger
}

func NewAuthHandler(tokens *services.TokenService, admin *services.AdminService, audit *services.AuditService, cfg *config.Configuration, db *gorm.DB, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		admin:  admin,
		audit:  audit,
		cfg:    cfg,
		db:     db,
		logger: logger.With(zap.String("handler", "auth")),
	}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string   `json:"accessToken"`
	User        UserView `json:"user"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(req.Password) < ah.cfg.Security.PasswordMinLength {
		httputil.Error(c, http.StatusBadRequest, "password is too short")
		return
	}
	if len(req.Password) > ah.cfg.Security.PasswordMaxLength {
		httputil.Error(c, http.StatusBadRequest, "password is too long")
		return
	}

	var existing models.User
	if err := ah.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		httputil.Error(c, http.StatusConflict, "email already registered")
		return
	}

	passwordHash, err := utils.EncryptPassword(req.Password)
	if err != nil {
		ah.logger.Error("Failed to hash password", zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	user := models.User{
		Email:            req.Email,
		PasswordHash:     passwordHash,
		Role:             models.RoleUser,
		ClearanceLevel:   models.SensitivityLow,
		OrganizationName: req.OrganizationName,
		Enabled:          true,
	}

	if err := ah.db.Create(&user).Error; err != nil {
		ah.logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "error creating user")
		return
	}

	ah.audit.Record(c.Request.Context(), user.Email, models.AuditRegister, "USER", user.ID, "", "")
	ah.logger.Info("User registered", zap.String("email", user.Email), zap.Uint("user_id", user.ID))

	token := ah.tokens.Issue(user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, authResponse{AccessToken: token, User: toUserView(&user)})
}

type acceptInviteRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AcceptInvite redeems an invite token and creates the invited account.
// The token alone authorizes the call, so the route is public.
func (ah *AuthHandler) AcceptInvite(c *gin.Context) {
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.Email == "" || req.Password == "" {
		httputil.Error(c, http.StatusBadRequest, "token, email and password are required")
		return
	}
	if len(req.Password) < ah.cfg.Security.PasswordMinLength {
		httputil.Error(c, http.StatusBadRequest, "password is too short")
		return
	}
	if len(req.Password) > ah.cfg.Security.PasswordMaxLength {
		httputil.Error(c, http.StatusBadRequest, "password is too long")
		return
	}

	var existing models.User
	if err := ah.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		httputil.Error(c, http.StatusConflict, "email already registered")
		return
	}

	passwordHash, err := utils.EncryptPassword(req.Password)
	if err != nil {
		ah.logger.Error("Failed to hash password", zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	user, err := ah.admin.AcceptInvite(c.Request.Context(), req.Token, req.Email, passwordHash)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	ah.logger.Info("Invite redeemed", zap.String("email", user.Email), zap.Uint("user_id", user.ID))

	token := ah.tokens.Issue(user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, authResponse{AccessToken: token, User: toUserView(user)})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	if err := ah.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		ah.logger.Warn("Login with unknown email", zap.String("email", req.Email))
		httputil.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if ok, err := utils.VerifyPassword(user.PasswordHash, req.Password); !ok || err != nil {
		ah.logger.Warn("Login with bad password", zap.String("email", req.Email))
		httputil.Error(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.Enabled {
		ah.logger.Warn("Login on disabled account", zap.String("email", req.Email))
		httputil.Error(c, http.StatusUnauthorized, "account disabled")
		return
	}

	ah.db.Model(&user).Update("last_login", time.Now())
	ah.audit.Record(c.Request.Context(), user.Email, models.AuditLogin, "USER", user.ID, "", "")

	token := ah.tokens.Issue(user.ID, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, authResponse{AccessToken: token, User: toUserView(&user)})
}
