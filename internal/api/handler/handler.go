package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crms/backend/internal/auth"
	"crms/backend/internal/complaint"
	"crms/backend/internal/evidence"
	"crms/backend/internal/hub"
	"crms/backend/internal/list"
	"crms/backend/internal/query"
	"crms/backend/internal/storage"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	Storage    storage.Storage
	Auth       *auth.Service
	Complaints *complaint.Service
	Evidence   *evidence.Service
	Pager      *list.Pager
	Hub        *hub.Manager
}

func NewHandler(s storage.Storage, a *auth.Service, c *complaint.Service,
	e *evidence.Service, p *list.Pager, h *hub.Manager) *Handler {
	return &Handler{
		Storage:    s,
		Auth:       a,
		Complaints: c,
		Evidence:   e,
		Pager:      p,
		Hub:        h,
	}
}

// RegisterRoutes sets up the route surface: two public routes, the
// authenticated application routes, and the admin-only block.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/signin", h.SignIn)

	authed := r.Group("/", h.RequireAuth)
	{
		authed.POST("/auth/signout", h.SignOut)
		authed.GET("/auth/session", h.Session)

		authed.GET("/complaints", h.ListComplaints)
		authed.POST("/complaints", h.CreateComplaint)
		authed.GET("/complaints/:id", h.GetComplaint)
		authed.PATCH("/complaints/:id/status", h.UpdateStatus)
		authed.POST("/complaints/:id/reassign", h.Reassign)
		authed.POST("/complaints/:id/updates", h.AddUpdate)

		authed.POST("/complaints/:id/evidence", h.UploadEvidence)
		authed.GET("/complaints/:id/evidence/:evidenceID", h.DownloadEvidence)
		authed.DELETE("/complaints/:id/evidence/:evidenceID", h.DeleteEvidence)

		authed.GET("/officers", h.ListOfficers)

		authed.GET("/preferences/sidebar", h.GetSidebarPref)
		authed.PUT("/preferences/sidebar", h.PutSidebarPref)

		authed.GET("/ws/complaints", h.ServeListSocket)
		authed.GET("/ws/complaints/:id/timeline", h.ServeTimelineSocket)
	}

	admin := r.Group("/admin", h.RequireAuth, h.RequireAdmin)
	{
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id/role", h.UpdateUserRole)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

// respondError maps service errors onto the error taxonomy: validation
// 400, authorization 403, not-found 404, missing-index and other
// backend failures 502 with the raw message. A missing composite index
// additionally carries its remediation link and a has_more=false hint
// so clients disable further pagination.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint.ErrForbidden),
		errors.Is(err, evidence.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, complaint.ErrEmptyTitle),
		errors.Is(err, complaint.ErrEmptyUpdate),
		errors.Is(err, complaint.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if ie, ok := query.DetectIndexError(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    ie.Msg,
				"has_more": false,
				"index_error": gin.H{
					"message": ie.Msg,
					"url":     ie.RemediationURL,
				},
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
