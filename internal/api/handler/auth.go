package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crms/backend/internal/auth"
	"crms/backend/internal/models"
)

const ctxUserKey = "current_user"

// RequireAuth validates the bearer token and loads the caller's full
// profile into the request context. Role comes from the user record,
// not the token, so a demotion takes effect immediately.
func (h *Handler) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, _, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown identity"})
		return
	}

	c.Set(ctxUserKey, user)
	c.Next()
}

// RequireAdmin guards the admin-only route block.
func (h *Handler) RequireAdmin(c *gin.Context) {
	user := currentUser(c)
	if user == nil || !auth.Allow(user.Role, auth.ActionManageUsers) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// SignUp registers a new identity and returns a session token. A
// requested role of "admin" is rejected.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.SignUp(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, auth.ErrAdminSignup) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	token, err := auth.IssueToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.Auth.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// SignOut exists for symmetry; sessions are stateless JWTs the client
// discards.
func (h *Handler) SignOut(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Session returns the full profile for the current token, the
// "current-session observer" of the route surface.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

// ListUsers returns every identity record, admins first.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole changes a user's role. Promoting a second admin is
// rejected with a distinguishable error and no state change.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Auth.SetRole(c.Param("id"), req.Role); err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "admin_exists"})
			return
		}
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser removes the identity record only; complaints referencing
// it keep their denormalized names.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Storage.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOfficers feeds the assignee filter dropdown.
func (h *Handler) ListOfficers(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allow(user.Role, auth.ActionOfficerViews) {
		c.JSON(http.StatusForbidden, gin.H{"error": "officers and admins only"})
		return
	}
	officers, err := h.Storage.ListOfficers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"officers": officers})
}

// GetSidebarPref reads the persisted sidebar-collapsed preference.
func (h *Handler) GetSidebarPref(c *gin.Context) {
	collapsed, err := h.Storage.GetSidebarCollapsed(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collapsed": collapsed})
}

type sidebarRequest struct {
	Collapsed bool `json:"collapsed"`
}

func (h *Handler) PutSidebarPref(c *gin.Context) {
	var req sidebarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Storage.SetSidebarCollapsed(currentUser(c).ID, req.Collapsed); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
