package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/storage"
)

// maxResumeSize caps uploads before anything touches object storage.
const maxResumeSize = 5 << 20 // 5 MiB

type UploadHandler struct {
	Storage storage.Interface
}

func NewUploadHandler(st storage.Interface) *UploadHandler {
	return &UploadHandler{Storage: st}
}

// UploadResume is the POST /applications/resume endpoint. The file lands in
// object storage under the caller's namespace; only the returned URL is ever
// persisted, via the resume_url field on a later create/update.
func (h *UploadHandler) UploadResume(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "multipart field 'resume' is required",
		})
		return
	}
	if fileHeader.Size > maxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "resume exceeds the 5 MiB limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "could not read uploaded file",
		})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := resumeKey(ownerID, fileHeader.Filename)
	url, err := h.Storage.Put(c.Request.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		log.Error().Err(err).Msg("resume upload failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "UpstreamFailure",
			"message": "file storage could not be reached",
		})
		return
	}

	c.JSON(http.StatusCreated, dtos.UploadResponse{URL: url})
}

// resumeKey namespaces objects per owner. Provider subjects like "auth0|abc"
// carry characters that make ugly object keys, so anything outside
// [a-zA-Z0-9_-] is flattened to '-'.
func resumeKey(ownerID, filename string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, ownerID)

	ext := strings.ToLower(filepath.Ext(filename))
	return "resumes/" + safe + "/" + uuid.NewString() + ext
}
