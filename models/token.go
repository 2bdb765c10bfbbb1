package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a device bearer token for the remote store.
//
// The "sub" claim carries the device name the token was issued to. The remote
// store does not authorize per collection: any valid token may read and write
// every collection.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// Device is the parsed "sub" claim.
	Device string `json:"-"`
}

// GetDevice returns the device name from the "sub" claim.
func (t *Token) GetDevice() (string, error) {
	device, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting device from token: %w", err)
	}
	if device == "" {
		return "", fmt.Errorf("error extracting device from token: empty subject")
	}
	return device, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
