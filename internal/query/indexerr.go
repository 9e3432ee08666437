package query

import (
	"errors"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// IndexError is the distinguished failure for a filter combination the
// backend cannot serve without a composite index. Callers must stop
// paginating when they see one; RemediationURL, when present, is the
// backend's own link for creating the missing index.
type IndexError struct {
	Msg            string
	RemediationURL string
}

func (e *IndexError) Error() string { return e.Msg }

var urlPattern = regexp.MustCompile(`https?://[^\s'"]+`)

// undefined_object: the SQLSTATE Postgres reports when a query names an
// index or operator class that does not exist.
const sqlstateUndefinedObject = "42704"

// DetectIndexError classifies err. It returns a non-nil IndexError when
// the failure indicates a missing composite index, either via SQLSTATE
// or via the message shape document stores use ("requires an index",
// "create_composite" plus an embedded console link).
func DetectIndexError(err error) (*IndexError, bool) {
	if err == nil {
		return nil, false
	}

	msg := err.Error()
	indexLike := false

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == sqlstateUndefinedObject {
		indexLike = true
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "requires an index") ||
		strings.Contains(lower, "create_composite") ||
		strings.Contains(lower, "composite index") {
		indexLike = true
	}

	if !indexLike {
		return nil, false
	}

	ie := &IndexError{Msg: msg}
	if m := urlPattern.FindString(msg); m != "" {
		ie.RemediationURL = m
	}
	return ie, true
}
