package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chefai/chefai/internal/ports/outbound"
)

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    outbound.ImageInput
	}{
		{"jpeg data uri", "data:image/jpeg;base64,/9j/4AAQ", outbound.ImageInput{Data: "/9j/4AAQ", MIMEType: "image/jpeg"}},
		{"png data uri", "data:image/png;base64,iVBORw0KGgo=", outbound.ImageInput{Data: "iVBORw0KGgo=", MIMEType: "image/png"}},
		{"raw base64", "iVBORw0KGgo=", outbound.ImageInput{Data: "iVBORw0KGgo=", MIMEType: "image/jpeg"}},
		{"non image data uri", "data:text/plain;base64,aGk=", outbound.ImageInput{Data: "data:text/plain;base64,aGk=", MIMEType: "image/jpeg"}},
		{"empty", "", outbound.ImageInput{Data: "", MIMEType: "image/jpeg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeImage(tt.payload))
		})
	}
}

func TestImageInput_DataURIRoundTrip(t *testing.T) {
	const uri = "data:image/webp;base64,UklGRg=="
	assert.Equal(t, uri, NormalizeImage(uri).DataURI())
}
