package roofai

import (
	"regexp"
	"strings"
)

var dataURLPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+/-]+);base64,(.*)$`)

const defaultMIMEType = "image/jpeg"

// DecodeImage normalizes a client-submitted image string into a bare base64
// payload and a MIME type. Browsers send data URLs; some clients send the
// payload alone. The function is total: it never fails, it only guesses less.
func DecodeImage(image string) DecodedImage {
	trimmed := strings.TrimSpace(image)

	if m := dataURLPattern.FindStringSubmatch(trimmed); m != nil {
		return DecodedImage{Payload: m[2], MIMEType: m[1]}
	}

	// A comma without the data: prefix still marks a header/payload split.
	if idx := strings.LastIndex(trimmed, ","); idx >= 0 {
		return DecodedImage{Payload: trimmed[idx+1:], MIMEType: defaultMIMEType}
	}

	return DecodedImage{Payload: trimmed, MIMEType: defaultMIMEType}
}
