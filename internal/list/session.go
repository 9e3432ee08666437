package list

import (
	"strings"
	"sync"
	"time"

	"crms/backend/internal/models"
	"crms/backend/internal/query"
)

// EmitFunc delivers pages to the session's client, typically a
// websocket write channel.
type EmitFunc func(models.ListPage)

// Session holds the listing state for one connected client: the three
// filter dimensions, the continuation cursor, the accumulated result
// set and the has-more flag. All mutation goes through its methods.
//
// Invariants:
//   - any settled change to status, assignee or text resets the cursor
//     and accumulation and triggers exactly one fresh load;
//   - at most one load is in flight; LoadMore during a load is a no-op;
//   - after a failed load, or a page shorter than the page size,
//     has-more is false and LoadMore does nothing.
type Session struct {
	pager  *Pager
	role   string
	userID string
	emit   EmitFunc

	debounce *debouncer

	mu       sync.Mutex
	status   string
	assignee string
	text     string
	items    []models.Complaint
	cursor   *query.Cursor
	hasMore  bool
	loading  bool
}

// NewSession creates a session for a caller with the given role and
// identity. delay is the text debounce interval (config.DebounceDelay
// in production, shortened in tests).
func NewSession(pager *Pager, role, userID string, delay time.Duration, emit EmitFunc) *Session {
	s := &Session{
		pager:    pager,
		role:     role,
		userID:   userID,
		emit:     emit,
		debounce: newDebouncer(delay),
		hasMore:  true,
	}
	return s
}

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// SetStatus applies a status filter ("all" clears it) and reloads.
func (s *Session) SetStatus(v string) {
	s.lock()
	if s.status == v {
		s.unlock()
		return
	}
	s.status = v
	s.resetLocked()
	s.unlock()
	s.load(false)
}

// SetAssignee applies an assignee filter ("all", "me" or a user ID)
// and reloads.
func (s *Session) SetAssignee(v string) {
	s.lock()
	if s.assignee == v {
		s.unlock()
		return
	}
	s.assignee = v
	s.resetLocked()
	s.unlock()
	s.load(false)
}

// SetText records a text query keystroke. The reload fires only after
// the input has settled for the debounce interval, and only when the
// settled value differs from the active one.
func (s *Session) SetText(v string) {
	v = strings.TrimSpace(v)
	s.debounce.Trigger(func() {
		s.lock()
		if s.text == v {
			s.unlock()
			return
		}
		s.text = v
		s.resetLocked()
		s.unlock()
		s.load(false)
	})
}

// LoadMore requests the next page. It is a no-op while a load is in
// flight or when the previous page exhausted the result set.
func (s *Session) LoadMore() {
	s.load(true)
}

// Reset clears every filter and reloads the first page.
func (s *Session) Reset() {
	s.debounce.Stop()
	s.lock()
	s.status, s.assignee, s.text = "", "", ""
	s.resetLocked()
	s.unlock()
	s.load(false)
}

// Close stops the pending debounce timer.
func (s *Session) Close() {
	s.debounce.Stop()
}

// Snapshot returns the accumulated items and the has-more flag.
func (s *Session) Snapshot() ([]models.Complaint, bool) {
	s.lock()
	defer s.unlock()
	items := make([]models.Complaint, len(s.items))
	copy(items, s.items)
	return items, s.hasMore
}

// resetLocked discards pagination state. Caller holds the lock.
func (s *Session) resetLocked() {
	s.items = nil
	s.cursor = nil
	s.hasMore = true
}

func (s *Session) load(continuation bool) {
	s.lock()
	if s.loading || (continuation && (!s.hasMore || s.cursor == nil)) {
		s.unlock()
		return
	}
	s.loading = true
	spec := query.Build(s.role, s.userID, s.status, s.assignee)
	if continuation {
		spec.Cursor = s.cursor
	}
	text := s.text
	s.unlock()

	page, err := s.pager.LoadPage(spec, text)

	s.lock()
	s.loading = false
	out := models.ListPage{Appended: continuation}
	if err != nil {
		// Any fetch failure stops pagination; a missing composite
		// index additionally carries its remediation link.
		s.hasMore = false
		out.Error = err.Error()
		if ie, ok := query.DetectIndexError(err); ok {
			out.IndexURL = ie.RemediationURL
		}
	} else {
		if continuation {
			s.items = append(s.items, page.Items...)
		} else {
			s.items = page.Items
		}
		s.cursor = page.NextCursor
		s.hasMore = page.HasMore
		out.Items = page.Items
	}
	out.HasMore = s.hasMore
	s.unlock()

	if s.emit != nil {
		s.emit(out)
	}
}
