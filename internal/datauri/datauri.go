// Package datauri splits and decodes base64 data URIs of the form
// data:<mime-type>;base64,<payload>.
package datauri

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

const (
	imagePrefix = "data:image/"

	// DefaultMIME is used when the header carries no recognizable type.
	DefaultMIME = "image/jpeg"
)

var (
	ErrMissingPayload = errors.New("data uri has no payload segment")
	ErrInvalidBase64  = errors.New("data uri payload is not valid base64")
)

var mimeRegexp = regexp.MustCompile(`data:(.*);base64`)

type DataURI struct {
	MIME    string
	Payload string
}

// IsImage reports whether s is a data URI declaring an image type.
func IsImage(s string) bool {
	return strings.HasPrefix(s, imagePrefix)
}

// Parse splits s at its first comma. The header before the comma only
// contributes the MIME type; a header without one falls back to DefaultMIME.
func Parse(s string) (DataURI, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return DataURI{}, ErrMissingPayload
	}
	return DataURI{MIME: MIMEType(header), Payload: payload}, nil
}

func MIMEType(header string) string {
	m := mimeRegexp.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return DefaultMIME
	}
	return m[1]
}

// Bytes decodes the payload. Browsers and hand-built clients disagree on
// padding and alphabet, so both standard and URL-safe encodings are
// accepted, with or without padding, and whitespace is ignored.
func (d DataURI) Bytes() ([]byte, error) {
	payload := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, d.Payload)

	encoding := base64.StdEncoding
	if strings.ContainsAny(payload, "-_") {
		encoding = base64.URLEncoding
	}
	if !strings.HasSuffix(payload, "=") && len(payload)%4 != 0 {
		encoding = encoding.WithPadding(base64.NoPadding)
	}

	data, err := encoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidBase64, err)
	}
	return data, nil
}
