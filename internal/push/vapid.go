package push

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// VAPID identifies this application server to push services (RFC 8292).
// Keys are base64url as produced by webpush.GenerateVAPIDKeys.
type VAPID struct {
	publicKey  string
	privateKey string
	subject    string
}

// NewVAPID checks the key pair's encoding. subject is a mailto: or https:
// contact URI.
func NewVAPID(publicKey, privateKey, subject string) (*VAPID, error) {
	pub, err := decodeKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decode vapid public key: %w", err)
	}
	if len(pub) != 65 || pub[0] != 0x04 {
		return nil, errors.New("vapid public key must be an uncompressed P-256 point")
	}
	priv, err := decodeKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("decode vapid private key: %w", err)
	}
	if len(priv) == 0 || len(priv) > 32 {
		return nil, errors.New("vapid private key must be a P-256 scalar")
	}
	if !strings.HasPrefix(subject, "mailto:") && !strings.HasPrefix(subject, "https:") {
		return nil, fmt.Errorf("vapid subject %q must be a mailto: or https: URI", subject)
	}
	return &VAPID{publicKey: publicKey, privateKey: privateKey, subject: subject}, nil
}

// PublicKey is the applicationServerKey browsers subscribe with.
func (v *VAPID) PublicKey() string { return v.publicKey }

// subscriber is the form webpush-go expects: it adds "mailto:" itself to
// anything that is not an https URL.
func (v *VAPID) subscriber() string {
	return strings.TrimPrefix(v.subject, "mailto:")
}

// decodeKey accepts base64url with or without padding, which is what
// browsers hand out, and falls back to standard base64.
func decodeKey(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
