package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crms/backend/internal/query"
	"crms/backend/internal/storage"
)

// ListComplaints serves one page of the complaint list. Query
// parameters: status, assignee ("all", "me" or a user id), q (local
// text filter) and cursor (continuation token from the previous page).
func (h *Handler) ListComplaints(c *gin.Context) {
	user := currentUser(c)

	cursor, err := query.DecodeCursor(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec := query.Build(user.Role, user.ID, c.Query("status"), c.Query("assignee"))
	spec.Cursor = cursor

	page, err := h.Pager.LoadPage(spec, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"items":     page.Items,
		"has_more":  page.HasMore,
		"page_size": spec.Limit,
	}
	if page.NextCursor != nil {
		resp["next_cursor"] = page.NextCursor.Encode()
	}
	c.JSON(http.StatusOK, resp)
}

type createComplaintRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Complaints.Create(currentUser(c), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": created})
}

// GetComplaint returns the full detail view: the record plus its
// evidence list, timeline and audit trail.
func (h *Handler) GetComplaint(c *gin.Context) {
	id := c.Param("id")

	record, err := h.Storage.GetComplaintByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	evidenceItems, err := h.Storage.ListEvidence(id)
	if err != nil {
		respondError(c, err)
		return
	}
	updates, err := h.Storage.ListUpdates(id)
	if err != nil {
		respondError(c, err)
		return
	}
	audit, err := h.Storage.ListAudit(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint": record,
		"evidence":  evidenceItems,
		"timeline":  updates,
		"audit":     audit,
	})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Complaints.UpdateStatus(currentUser(c), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reassignRequest struct {
	OfficerID string `json:"officer_id" binding:"required"`
}

// Reassign hands the complaint to another officer and appends the
// audit entry (admin only).
func (h *Handler) Reassign(c *gin.Context) {
	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officer, err := h.Storage.GetUserByID(req.OfficerID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown officer"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Complaints.Reassign(currentUser(c), c.Param("id"), officer); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addUpdateRequest struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

func (h *Handler) AddUpdate(c *gin.Context) {
	var req addUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := h.Complaints.AddUpdate(currentUser(c), c.Param("id"), req.Text, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"update": update})
}
