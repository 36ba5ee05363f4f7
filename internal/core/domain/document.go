package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RawDocument is a vendor credit-report payload already materialized in memory.
// It is created at ingestion and treated as read-only afterwards.
type RawDocument struct {
	// Payload is the raw document bytes (HTML, text, ...)
	Payload []byte `json:"-"`

	// MediaType is the declared media type (e.g. "text/html; charset=utf-8")
	MediaType string `json:"media_type"`

	// ObjectKey is the originating storage key (opaque correlation id)
	ObjectKey string `json:"object_key"`

	// AccountID is the owning account (opaque correlation id)
	AccountID string `json:"account_id"`
}

// NewRawDocument copies payload so later mutation by the caller cannot leak in.
func NewRawDocument(payload []byte, mediaType, objectKey, accountID string) RawDocument {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return RawDocument{
		Payload:   buf,
		MediaType: strings.TrimSpace(mediaType),
		ObjectKey: objectKey,
		AccountID: accountID,
	}
}

// IsEmpty returns true if the payload has no non-whitespace content.
func (d RawDocument) IsEmpty() bool {
	return len(strings.TrimSpace(string(d.Payload))) == 0
}

// BaseMediaType returns the media type without parameters, lower-cased.
func (d RawDocument) BaseMediaType() string {
	mt := strings.ToLower(d.MediaType)
	if idx := strings.Index(mt, ";"); idx != -1 {
		mt = mt[:idx]
	}
	return strings.TrimSpace(mt)
}

// IsHTML reports whether the document is declared as, or sniffs like, HTML.
func (d RawDocument) IsHTML() bool {
	switch d.BaseMediaType() {
	case "text/html", "application/xhtml+xml":
		return true
	}
	head := d.Payload
	if len(head) > 512 {
		head = head[:512]
	}
	lower := strings.ToLower(string(head))
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype html")
}

// Fingerprint returns the hex SHA-256 of the base media type and the payload.
// Correlation ids are not part of it.
func (d RawDocument) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(d.BaseMediaType()))
	h.Write([]byte{0})
	h.Write(d.Payload)
	return hex.EncodeToString(h.Sum(nil))
}
