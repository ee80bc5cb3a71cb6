// utils/validator.go - Input validation
package utils

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidBase64 = errors.New("image_base64 is not valid base64")
	ErrNotAnImage    = errors.New("image_base64 does not contain an image")
)

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// DecodeImageBase64 decodes a base64 image, with or without a
// "data:<mime>;base64," prefix, and sniffs its MIME type from the bytes.
func DecodeImageBase64(raw string) ([]byte, string, error) {
	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, "data:") {
		if _, after, ok := strings.Cut(payload, ","); ok {
			payload = after
		}
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", ErrInvalidBase64
		}
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidBase64
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", ErrNotAnImage
	}
	return data, mt.String(), nil
}
