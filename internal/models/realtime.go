package models

// TimelineEvent is the wire message fanned out to websocket subscribers
// of a complaint's timeline. It is also the payload published to Redis
// so that any server instance can deliver it.
type TimelineEvent struct {
	ComplaintID string           `json:"complaint_id"`
	Update      *ComplaintUpdate `json:"update,omitempty"`
	// Status carries the complaint's status after the update when it
	// changed, so subscribers can refresh without a point read.
	Status string `json:"status,omitempty"`
}

// ListRequest is an inbound frame on an interactive list session.
// Type is one of "set_status", "set_assignee", "set_text", "load_more",
// "reset". Value carries the new filter value for the set_* types.
type ListRequest struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ListPage is the outbound frame of a list session: one page of
// enriched, locally filtered complaints plus pagination state.
type ListPage struct {
	Items []Complaint `json:"items"`
	// Appended reports whether Items extends the previous page set
	// (load more) or replaces it (filter change).
	Appended bool   `json:"appended"`
	HasMore  bool   `json:"has_more"`
	Error    string `json:"error,omitempty"`
	// IndexURL is the backend's remediation link when the query failed
	// for want of a composite index.
	IndexURL string `json:"index_url,omitempty"`
}
