package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrInvalidToken  = errors.New("invalid wallpaper token")
	ErrTokenConflict = errors.New("wallpaper token already in use")
)

const wallpaperTokenBytes = 24

// NewWallpaperToken returns a fresh opaque URL-safe token for the public image URL.
func NewWallpaperToken() (string, error) {
	buf := make([]byte, wallpaperTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashWallpaperToken is the at-rest form of a wallpaper token. Only the
// digest is stored, so a database dump does not expose live image URLs.
func HashWallpaperToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > 128 {
		return "", ErrInvalidToken
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]), nil
}
