package roofai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURL(t *testing.T) {
	decoded := DecodeImage("data:image/png;base64,AAAA")
	require.Equal(t, "AAAA", decoded.Payload)
	require.Equal(t, "image/png", decoded.MIMEType)
}

func TestDecodeImageCommaSplit(t *testing.T) {
	decoded := DecodeImage("some-header;base64,QUJDRA==")
	require.Equal(t, "QUJDRA==", decoded.Payload)
	require.Equal(t, "image/jpeg", decoded.MIMEType)
}

func TestDecodeImageLastCommaWins(t *testing.T) {
	decoded := DecodeImage("a,b,QUJDRA==")
	require.Equal(t, "QUJDRA==", decoded.Payload)
	require.Equal(t, "image/jpeg", decoded.MIMEType)
}

func TestDecodeImageRawPayload(t *testing.T) {
	decoded := DecodeImage("QUJDRA==")
	require.Equal(t, "QUJDRA==", decoded.Payload)
	require.Equal(t, "image/jpeg", decoded.MIMEType)
}

func TestDecodeImageOtherMIMETypes(t *testing.T) {
	decoded := DecodeImage("data:image/webp;base64,UklGR==")
	require.Equal(t, "image/webp", decoded.MIMEType)
	require.Equal(t, "UklGR==", decoded.Payload)
}
