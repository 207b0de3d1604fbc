package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
)

type CaseHandler struct {
	cases  *services.CaseService
	logger *zap.Logger
}

func NewCaseHandler(cases *services.CaseService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		cases:  cases,
		logger: logger.With(zap.String("handler", "case")),
	}
}

func caseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid case id")
		return 0, false
	}
	return uint(id), true
}

func (h *CaseHandler) views(cases []models.Case) []CaseView {
	views := make([]CaseView, len(cases))
	for i := range cases {
		matter, err := h.cases.Matter(&cases[i])
		if err != nil {
			h.logger.Warn("Dropping unreadable case matter", zap.Uint("case_id", cases[i].ID), zap.Error(err))
		}
		views[i] = toCaseView(&cases[i], matter)
	}
	return views
}

func (h *CaseHandler) List(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	page, size := httputil.PageParams(c, 20)

	filters := services.CaseFilters{
		Title:       c.Query("title"),
		Status:      models.CaseStatus(c.Query("status")),
		Sensitivity: models.SensitivityLevel(c.Query("sensitivityLevel")),
	}

	cases, total, err := h.cases.List(c.Request.Context(), viewer, filters, page, size)
	if err != nil {
		h.logger.Error("List cases failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewPage(h.views(cases), page, size, total))
}

func (h *CaseHandler) ListMine(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	page, size := httputil.PageParams(c, 10)

	cases, total, err := h.cases.ListMine(c.Request.Context(), viewer, page, size)
	if err != nil {
		h.logger.Error("List my cases failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewPage(h.views(cases), page, size, total))
}

func (h *CaseHandler) Get(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	kase, err := h.cases.Get(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	matter, err := h.cases.Matter(kase)
	if err != nil {
		h.logger.Warn("Dropping unreadable case matter", zap.Uint("case_id", kase.ID), zap.Error(err))
	}
	c.JSON(http.StatusOK, toCaseView(kase, matter))
}

type createCaseRequest struct {
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	SensitivityLevel models.SensitivityLevel `json:"sensitivityLevel"`
	Matter           *models.CaseMatter      `json:"matter,omitempty"`
}

func (h *CaseHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SensitivityLevel == "" {
		req.SensitivityLevel = models.SensitivityLow
	}

	kase, err := h.cases.Create(c.Request.Context(), actor, req.Title, req.Description, req.SensitivityLevel, req.Matter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCaseView(kase, req.Matter))
}

type updateCaseRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Matter      *models.CaseMatter `json:"matter,omitempty"`
}

func (h *CaseHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	var req updateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	kase, err := h.cases.UpdateMeta(c.Request.Context(), actor, id, req.Title, req.Description, req.Matter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	matter, _ := h.cases.Matter(kase)
	c.JSON(http.StatusOK, toCaseView(kase, matter))
}

type updateStatusRequest struct {
	NewStatus models.CaseStatus `json:"newStatus"`
}

func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	kase, err := h.cases.UpdateStatus(c.Request.Context(), actor, id, req.NewStatus)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	matter, _ := h.cases.Matter(kase)
	c.JSON(http.StatusOK, toCaseView(kase, matter))
}

func (h *CaseHandler) UpdateSensitivity(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	level := models.SensitivityLevel(c.Query("level"))
	kase, err := h.cases.UpdateSensitivity(c.Request.Context(), actor, id, level)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	matter, _ := h.cases.Matter(kase)
	c.JSON(http.StatusOK, toCaseView(kase, matter))
}
