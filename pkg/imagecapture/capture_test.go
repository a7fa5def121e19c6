package imagecapture

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cropcast/entities"
	"cropcast/pkg/fault"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-field")

func TestIsImageType(t *testing.T) {
	tests := []struct {
		declared string
		want     bool
	}{
		{"image/png", true},
		{"IMAGE/JPEG", true},
		{"image/webp; charset=binary", true},
		{"application/pdf", false},
		{"text/plain", false},
		{"", false},
		{`image/png" onerror="x`, false},
		{"image/ png", false},
		{"image/", false},
	}
	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageType(tt.declared))
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/webp", MediaType("IMAGE/WEBP; charset=binary"))
	assert.Empty(t, MediaType(`image/png" onerror="x`))
}

func TestCapture_MalformedMediaType(t *testing.T) {
	var s Slot
	s.Set(&entities.SatelliteImage{Data: pngBytes, MIMEType: "image/png"})

	for _, declared := range []string{`image/png" onerror="x`, "image/ png", "image/"} {
		_, err := Capture(context.Background(), declared, bytes.NewReader(pngBytes))
		assert.True(t, fault.Is(err, fault.KindInvalidInput), "%q: %v", declared, err)

		_, err = s.Capture(context.Background(), declared, bytes.NewReader(pngBytes))
		assert.True(t, fault.Is(err, fault.KindInvalidInput), "%q: %v", declared, err)
	}
	assert.Equal(t, "image/png", s.Image().MIMEType)
}

func TestCapture(t *testing.T) {
	img, err := Capture(context.Background(), "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestCapture_StripsDataURIPrefix(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	img, err := Capture(context.Background(), "image/png", strings.NewReader(uri))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
}

func TestCapture_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		body     []byte
	}{
		{"not an image", "application/pdf", []byte("%PDF-1.7")},
		{"empty", "image/png", nil},
		{"too large", "image/png", bytes.Repeat([]byte{1}, MaxBytes+1)},
		{"bad data uri", "image/png", []byte("data:image/png;base64,@@@")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Capture(context.Background(), tt.declared, bytes.NewReader(tt.body))
			assert.True(t, fault.Is(err, fault.KindInvalidInput), "got %v", err)
		})
	}
}

func TestCapture_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Capture(ctx, "image/png", bytes.NewReader(pngBytes))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromDataURI(t *testing.T) {
	img, err := FromDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, pngBytes, img.Data)

	for _, bad := range []string{
		"",
		"image/png;base64,AAAA",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,rawbytes",
		"data:image/png;base64",
	} {
		_, err := FromDataURI(bad)
		assert.True(t, fault.Is(err, fault.KindInvalidInput), "input %q", bad)
	}
}

func TestSlot_NonImageKeepsPreviousImage(t *testing.T) {
	var s Slot
	_, err := s.Capture(context.Background(), "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	_, err = s.Capture(context.Background(), "text/csv", strings.NewReader("a,b"))
	assert.True(t, fault.Is(err, fault.KindInvalidInput))

	require.NotNil(t, s.Image())
	assert.Equal(t, pngBytes, s.Image().Data)
}

func TestSlot_FailedReadKeepsPreviousImage(t *testing.T) {
	var s Slot
	_, err := s.Capture(context.Background(), "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	_, err = s.Capture(context.Background(), "image/png", bytes.NewReader(nil))
	require.Error(t, err)
	assert.Equal(t, pngBytes, s.Image().Data)
}

func TestSlot_LastStartedWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	var s Slot
	slowData := []byte("slow-image")
	fastData := []byte("fast-image")

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := s.Capture(context.Background(), "image/png", pr)
		done <- err
	}()

	// Once the first write is consumed the slow capture holds its ticket.
	_, err := pw.Write(slowData[:4])
	require.NoError(t, err)

	_, err = s.Capture(context.Background(), "image/png", bytes.NewReader(fastData))
	require.NoError(t, err)

	_, err = pw.Write(slowData[4:])
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, fastData, s.Image().Data)
}

func TestSlot_FailedNewerDoesNotDropOlder(t *testing.T) {
	defer goleak.VerifyNone(t)

	var s Slot
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := s.Capture(context.Background(), "image/png", pr)
		done <- err
	}()

	_, err := pw.Write([]byte("go"))
	require.NoError(t, err)

	_, err = s.Capture(context.Background(), "image/png", bytes.NewReader(nil))
	require.True(t, fault.Is(err, fault.KindInvalidInput))

	_, err = pw.Write([]byte("od"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	require.NoError(t, <-done)
	require.NotNil(t, s.Image())
	assert.Equal(t, []byte("good"), s.Image().Data)
}

func TestSlot_SetAndClear(t *testing.T) {
	var s Slot
	img, err := FromDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes))
	require.NoError(t, err)

	s.Set(img)
	assert.Same(t, img, s.Image())

	s.Clear()
	assert.Nil(t, s.Image())
}

func TestPreviewURI(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,cG5n",
		PreviewURI(&entities.SatelliteImage{Data: []byte("png"), MIMEType: "IMAGE/PNG; x=y"}))
	assert.Empty(t, PreviewURI(&entities.SatelliteImage{Data: []byte("png"), MIMEType: `image/png" onerror="x`}))
	assert.Empty(t, PreviewURI(&entities.SatelliteImage{MIMEType: "image/png"}))
	assert.Empty(t, PreviewURI(nil))
}
