// Package imagecapture turns an uploaded satellite image into the binary
// payload attached to a forecast request.
package imagecapture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"strings"
	"sync"

	"cropcast/entities"
	"cropcast/pkg/fault"
)

// MaxBytes caps a single upload (the form advertises 10MB).
const MaxBytes = 10 << 20

const notAnImage = "Please select an image file."

// ErrSuperseded is returned by Slot.Capture when a capture started after
// this one has already been stored; its result is dropped.
var ErrSuperseded = errors.New("imagecapture: superseded by a newer capture")

// MediaType returns the lower-cased media type of declared without
// parameters, or "" when declared is not a well-formed media type.
func MediaType(declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mt
}

// IsImageType reports whether declared parses as image/<subtype>.
func IsImageType(declared string) bool {
	sub, ok := strings.CutPrefix(MediaType(declared), "image/")
	return ok && sub != ""
}

// PreviewURI renders img as a base64 data URI for display. It returns ""
// unless img carries a well-formed image media type.
func PreviewURI(img *entities.SatelliteImage) string {
	if img == nil || len(img.Data) == 0 || !IsImageType(img.MIMEType) {
		return ""
	}
	return "data:" + MediaType(img.MIMEType) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Capture reads r fully and returns its exact bytes tagged with the declared
// media type. Content that is itself a data URI is unwrapped first.
func Capture(ctx context.Context, declaredMIME string, r io.Reader) (*entities.SatelliteImage, error) {
	if !IsImageType(declaredMIME) {
		return nil, fault.InvalidInput(notAnImage)
	}
	data, err := readAll(ctx, r, MaxBytes)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("data:")) {
		_, payload, err := splitDataURI(string(data))
		if err != nil {
			return nil, err
		}
		data = payload
	}
	if len(data) == 0 {
		return nil, fault.InvalidInput("The selected image is empty.")
	}
	return &entities.SatelliteImage{Data: data, MIMEType: MediaType(declaredMIME)}, nil
}

// FromDataURI decodes "data:image/png;base64,...." into an image payload.
func FromDataURI(s string) (*entities.SatelliteImage, error) {
	mt, payload, err := splitDataURI(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if !IsImageType(mt) {
		return nil, fault.InvalidInput(notAnImage)
	}
	if len(payload) == 0 {
		return nil, fault.InvalidInput("The selected image is empty.")
	}
	if len(payload) > MaxBytes {
		return nil, fault.InvalidInput("The selected image is larger than 10MB.")
	}
	return &entities.SatelliteImage{Data: payload, MIMEType: MediaType(mt)}, nil
}

func splitDataURI(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, fault.InvalidInput("image must be a data URI")
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return "", nil, fault.InvalidInput("malformed data URI")
	}
	header, body := s[len("data:"):comma], s[comma+1:]
	if !strings.HasSuffix(header, ";base64") {
		return "", nil, fault.InvalidInput("data URI must be base64 encoded")
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return "", nil, &fault.Error{Kind: fault.KindInvalidInput, Message: "malformed data URI", Err: err}
	}
	return strings.TrimSuffix(header, ";base64"), payload, nil
}

func readAll(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 32<<10)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if int64(buf.Len()) > limit {
			return nil, fault.InvalidInput("The selected image is larger than 10MB.")
		}
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Slot holds the most recently captured image. When captures overlap the
// one started last among those that succeed wins; an older capture finishing
// after a newer successful one is discarded. A failed capture never replaces
// anything.
type Slot struct {
	mu      sync.Mutex
	started uint64
	applied uint64
	image   *entities.SatelliteImage
}

func (s *Slot) Capture(ctx context.Context, declaredMIME string, r io.Reader) (*entities.SatelliteImage, error) {
	if !IsImageType(declaredMIME) {
		return nil, fault.InvalidInput(notAnImage)
	}
	ticket := s.begin()
	img, err := Capture(ctx, declaredMIME, r)
	if err != nil {
		return nil, err
	}
	if err := s.complete(ticket, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Set stores an already decoded image, superseding in-flight captures.
func (s *Slot) Set(img *entities.SatelliteImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	s.applied = s.started
	s.image = img
}

func (s *Slot) Image() *entities.SatelliteImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

func (s *Slot) Clear() { s.Set(nil) }

func (s *Slot) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

func (s *Slot) complete(ticket uint64, img *entities.SatelliteImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.applied {
		return ErrSuperseded
	}
	s.applied = ticket
	s.image = img
	return nil
}
