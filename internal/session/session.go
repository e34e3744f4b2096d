package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/azhaanglitch/smart-accident-detector/internal/crypto"
)

// Identity is the minimal profile record persisted client-side after a
// successful login. It is owned by the browser; the server keeps no
// session table.
type Identity struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ErrDecode reports a malformed session cookie value. Consumers treat it
// as "not logged in", never as a server fault.
var ErrDecode = errors.New("malformed session cookie")

// Codec converts identities to and from a transport-safe cookie value.
type Codec interface {
	Encode(Identity) (string, error)
	Decode(string) (Identity, error)
}

// Base64Codec renders the identity as base64 URL-encoded JSON. It is a
// reversible encoding only: no confidentiality, no tamper resistance.
type Base64Codec struct{}

func (Base64Codec) Encode(id Identity) (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("failed to marshal identity: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

func (Base64Codec) Decode(value string) (Identity, error) {
	data, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return id, nil
}

// SignedCodec is a drop-in replacement for Base64Codec that appends an
// HMAC-SHA256 signature, giving the cookie tamper resistance without
// changing the rest of the protocol.
type SignedCodec struct {
	signingKey []byte
}

// NewSignedCodec creates a SignedCodec with the given signing key.
func NewSignedCodec(signingKey []byte) SignedCodec {
	return SignedCodec{signingKey: signingKey}
}

func (c SignedCodec) Encode(id Identity) (string, error) {
	encoded, err := Base64Codec{}.Encode(id)
	if err != nil {
		return "", err
	}
	return encoded + "." + crypto.SignData(encoded, c.signingKey), nil
}

func (c SignedCodec) Decode(value string) (Identity, error) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return Identity{}, fmt.Errorf("%w: missing signature", ErrDecode)
	}
	if !crypto.ValidateSignedData(payload, signature, c.signingKey) {
		return Identity{}, fmt.Errorf("%w: invalid signature", ErrDecode)
	}
	return Base64Codec{}.Decode(payload)
}
