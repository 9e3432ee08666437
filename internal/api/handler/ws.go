package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"crms/backend/internal/config"
	"crms/backend/internal/hub"
	"crms/backend/internal/list"
	"crms/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeTimelineSocket upgrades the connection and subscribes the
// caller to live timeline events for one complaint.
func (h *Handler) ServeTimelineSocket(c *gin.Context) {
	user := currentUser(c)
	complaintID := c.Param("id")

	if _, err := h.Storage.GetComplaintByID(complaintID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &hub.WebSocketClient{
		UserID:      user.ID,
		ComplaintID: complaintID,
		Conn:        conn,
		Hub:         h.Hub,
		Send:        make(chan models.TimelineEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}

// ServeListSocket runs an interactive complaint-list session over a
// websocket: inbound frames mutate filter state, outbound frames are
// pages. The session owns debouncing, cursor resets and the in-flight
// guard.
func (h *Handler) ServeListSocket(c *gin.Context) {
	user := currentUser(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	// Pages are emitted from both the reader goroutine and the
	// debounce timer; serialize the writes.
	var writeMu sync.Mutex
	emit := func(page models.ListPage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(page); err != nil {
			log.Printf("Error writing list page for user %s: %v", user.ID, err)
		}
	}

	session := list.NewSession(h.Pager, user.Role, user.ID, config.DebounceDelay, emit)
	defer session.Close()
	defer conn.Close()

	// First page before any filter input.
	session.Reset()

	for {
		var req models.ListRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			return
		}

		switch req.Type {
		case "set_status":
			session.SetStatus(req.Value)
		case "set_assignee":
			session.SetAssignee(req.Value)
		case "set_text":
			session.SetText(req.Value)
		case "load_more":
			session.LoadMore()
		case "reset":
			session.Reset()
		default:
			log.Printf("Unknown list request type %q from user %s", req.Type, user.ID)
		}
	}
}
