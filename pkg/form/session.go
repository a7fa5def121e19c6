package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
	"cropcast/pkg/imagecapture"
	"cropcast/pkg/prediction/service"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, q := range []Phase{PhaseIdle, PhaseSubmitting, PhaseSucceeded, PhaseFailed} {
		if q.String() == string(b) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("form: unknown phase %q", b)
}

// ErrSubmitInFlight is returned by Submit while another submission of the
// same session is outstanding.
var ErrSubmitInFlight = errors.New("form: a forecast is already being generated")

// Session couples a State with the outcome of the latest submission.
type Session struct {
	ID string

	mu         sync.Mutex
	state      *State
	phase      Phase
	prediction *entities.Prediction
	err        error
	submission string
	touched    time.Time

	slot  imagecapture.Slot
	guard *semaphore.Weighted
}

func NewSession(id string, env *envelope.Envelope) *Session {
	return &Session{
		ID:      id,
		state:   Default(env),
		guard:   semaphore.NewWeighted(1),
		touched: time.Now(),
	}
}

// Update sets one form field. See State.Set.
func (s *Session) Update(field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.state.Set(field, raw)
}

// UpdateAll sets several fields as one change. See State.Apply.
func (s *Session) UpdateAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.state.Apply(values)
}

// CaptureImage reads an uploaded file into the session. A non-image or a
// failed read keeps the previously stored image. When uploads overlap the
// one started last is kept and the others return imagecapture.ErrSuperseded.
func (s *Session) CaptureImage(ctx context.Context, declaredMIME string, r io.Reader) error {
	if _, err := s.slot.Capture(ctx, declaredMIME, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.state.SetImage(s.slot.Image())
	return nil
}

// SetImage stores an already decoded image, e.g. one sent as a data URI.
func (s *Session) SetImage(img *entities.SatelliteImage) {
	s.slot.Set(img)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.state.SetImage(img)
}

// Submit runs one forecast for the current form values. Only one submission
// per session may be outstanding; a second concurrent call fails fast with
// ErrSubmitInFlight. A missing image fails before the predictor is called
// and the session never enters PhaseSubmitting.
func (s *Session) Submit(ctx context.Context, p service.PredictionService) (*entities.Prediction, error) {
	if !s.guard.TryAcquire(1) {
		return nil, ErrSubmitInFlight
	}
	defer s.guard.Release(1)

	s.mu.Lock()
	s.touched = time.Now()
	req, err := s.state.Request()
	if err != nil {
		s.phase, s.prediction, s.err = PhaseFailed, nil, err
		s.submission = ""
		s.mu.Unlock()
		return nil, err
	}
	id := uuid.NewString()
	s.phase, s.prediction, s.err = PhaseSubmitting, nil, nil
	s.submission = id
	s.mu.Unlock()

	pred, err := p.Predict(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submission != id {
		// Reset while the call was outstanding.
		return pred, err
	}
	if err != nil {
		s.phase, s.err = PhaseFailed, err
		return nil, err
	}
	s.phase, s.prediction = PhaseSucceeded, pred
	return pred, nil
}

// Reset returns the session to PhaseIdle with default values. An outstanding
// submission still completes but its result is not recorded.
func (s *Session) Reset() {
	s.slot.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Default(s.state.Envelope())
	s.phase, s.prediction, s.err = PhaseIdle, nil, nil
	s.submission = ""
	s.touched = time.Now()
}

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	SessionID    string                     `json:"sessionId"`
	Values       entities.PredictionRequest `json:"values"`
	HasImage     bool                       `json:"hasImage"`
	ImagePreview string                     `json:"-"`
	Phase        Phase                      `json:"phase"`
	Prediction   *entities.Prediction       `json:"prediction,omitempty"`
	Error        string                     `json:"error,omitempty"`
	ErrorKind    string                     `json:"errorKind,omitempty"`
	SubmissionID string                     `json:"submissionId,omitempty"`
}

func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.state.Values()
	snap := Snapshot{
		SessionID:    s.ID,
		Values:       v,
		HasImage:     v.HasImage(),
		ImagePreview: imagecapture.PreviewURI(v.Image),
		Phase:        s.phase,
		Prediction:   s.prediction,
		SubmissionID: s.submission,
	}
	if s.err != nil {
		snap.Error = fault.UserMessage(s.err)
		snap.ErrorKind = fault.KindOf(s.err).String()
	}
	return snap
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}
