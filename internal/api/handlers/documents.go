package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/config"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
	"github.com/securecase/securecase/internal/utils"
)

type DocumentHandler struct {
	documents *services.DocumentService
	cfg       *config.Configuration
	logger    *zap.Logger
}

func NewDocumentHandler(documents *services.DocumentService, cfg *config.Configuration, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		cfg:       cfg,
		logger:    logger.With(zap.String("handler", "document")),
	}
}

func (h *DocumentHandler) ListGroups(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	groups, err := h.documents.ListGroups(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	views := make([]DocumentGroupView, len(groups))
	for i, group := range groups {
		versions := make([]DocumentView, len(group.Versions))
		for j := range group.Versions {
			versions[j] = toDocumentView(&group.Versions[j])
		}
		views[i] = DocumentGroupView{DocumentGroupID: group.DocumentGroupID, Versions: versions}
	}
	c.JSON(http.StatusOK, views)
}

// Upload accepts multipart form fields file, sensitivityLevel, and an
// optional documentGroupId for a new version of an existing group.
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	if fileHeader.Size > h.cfg.Upload.MaxSizeBytes {
		httputil.Error(c, http.StatusBadRequest, "file exceeds the upload size limit")
		return
	}
	contentType := utils.DocumentContentType(fileHeader)
	if contentType == "" {
		httputil.Error(c, http.StatusBadRequest, "unsupported file type")
		return
	}

	level := models.SensitivityLevel(c.PostForm("sensitivityLevel"))
	if !models.IsValidSensitivityLevel(level) {
		httputil.Error(c, http.StatusBadRequest, "invalid sensitivity level")
		return
	}
	groupID := c.PostForm("documentGroupId")

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Open uploaded file failed", zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "could not read upload")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("Read uploaded file failed", zap.Error(err))
		httputil.Error(c, http.StatusInternalServerError, "could not read upload")
		return
	}

	doc, err := h.documents.Upload(c.Request.Context(), actor, id, fileHeader.Filename, contentType, content, level, groupID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDocumentView(doc))
}

func (h *DocumentHandler) Download(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	docID, err := strconv.ParseUint(c.Param("docId"), 10, 32)
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), viewer, id, uint(docID))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, doc.FileType, doc.Content)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	docID, err := strconv.ParseUint(c.Param("docId"), 10, 32)
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.documents.DeleteVersion(c.Request.Context(), actor, id, uint(docID)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) UpdateGroupSensitivity(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")
	level := models.SensitivityLevel(c.Query("sensitivityLevel"))

	if err := h.documents.UpdateGroupSensitivity(c.Request.Context(), actor, id, groupID, level); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
