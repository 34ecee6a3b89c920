package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind string

const (
	// KindFetch represents transient network/transport failures (retryable).
	KindFetch Kind = "fetch"
	// KindParse represents malformed document or JSON payloads.
	KindParse Kind = "parse"
	// KindCache represents block-cache failures.
	KindCache Kind = "cache"
	// KindPublish represents publisher failures.
	KindPublish Kind = "publish"
	// KindConfig represents configuration errors.
	KindConfig Kind = "config"
)

// SiteError is the typed error carried through the per-site pipeline.
type SiteError struct {
	Kind    Kind
	Site    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Kind, e.Site, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Site, e.Message)
}

// Unwrap returns the underlying error.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error class is worth another attempt.
// Only transport-level fetch failures are; a hard block or a parse failure
// will not get better by retrying.
func (e *SiteError) IsRetryable() bool {
	return e.Kind == KindFetch
}

// New creates a new SiteError.
func New(kind Kind, site, message string, err error) *SiteError {
	return &SiteError{Kind: kind, Site: site, Message: message, Err: err}
}

// NewFetch creates a transient fetch error.
func NewFetch(site, message string, err error) *SiteError {
	return New(KindFetch, site, message, err)
}

// NewParse creates a parse error.
func NewParse(site, message string, err error) *SiteError {
	return New(KindParse, site, message, err)
}

// Note renders an error as a site-outcome note: the error kind (or the Go
// type for foreign errors) plus the message truncated to maxLen runes.
func Note(err error, maxLen int) string {
	var se *SiteError
	label := fmt.Sprintf("%T", err)
	msg := err.Error()
	if errors.As(err, &se) {
		label = string(se.Kind)
		msg = se.Message
		if se.Err != nil {
			msg = fmt.Sprintf("%s: %v", se.Message, se.Err)
		}
	}
	r := []rune(msg)
	if len(r) > maxLen {
		msg = string(r[:maxLen])
	}
	return label + ": " + msg
}
