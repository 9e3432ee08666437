package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadEvidence accepts a multipart "file" field, streams it into the
// blob store and writes the metadata row. Progress is logged; the HTTP
// response arrives only after both phases complete.
func (h *Handler) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	complaintID := c.Param("id")
	progress := func(written, total int64) {
		if total > 0 && written == total {
			log.Printf("INFO: Evidence upload complete for complaint %s (%d bytes)", complaintID, written)
		}
	}

	ev, err := h.Evidence.Upload(currentUser(c), complaintID, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), f, fileHeader.Size, progress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"evidence": ev})
}

// DownloadEvidence redirects to the blob's download URL.
func (h *Handler) DownloadEvidence(c *gin.Context) {
	ev, err := h.Storage.GetEvidence(c.Param("id"), c.Param("evidenceID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, ev.URL)
}

// DeleteEvidence removes an attachment (admin or uploader only).
// Metadata goes first, then the blob.
func (h *Handler) DeleteEvidence(c *gin.Context) {
	if err := h.Evidence.Delete(currentUser(c), c.Param("id"), c.Param("evidenceID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
