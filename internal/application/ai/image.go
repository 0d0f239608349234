package ai

import (
	"regexp"

	"github.com/chefai/chefai/internal/ports/outbound"
)

const defaultImageMIMEType = "image/jpeg"

var dataURIPrefix = regexp.MustCompile(`^data:(image/\w+);base64,`)

// NormalizeImage strips a data:image/<subtype>;base64, prefix from an
// uploaded image. The MIME type comes from the prefix when present and is
// image/jpeg otherwise. Unprefixed payloads pass through unchanged.
func NormalizeImage(payload string) outbound.ImageInput {
	m := dataURIPrefix.FindStringSubmatchIndex(payload)
	if m == nil {
		return outbound.ImageInput{Data: payload, MIMEType: defaultImageMIMEType}
	}
	return outbound.ImageInput{
		Data:     payload[m[1]:],
		MIMEType: payload[m[2]:m[3]],
	}
}
