package ekdsend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ekddigital/ekdsend-go/internal/api"
)

// CallStatus is the state of a voice call.
type CallStatus string

// Call statuses.
const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
	CallStatusNoAnswer   CallStatus = "no-answer"
	CallStatusBusy       CallStatus = "busy"
)

// VoiceCall is a voice call as returned by the API.
type VoiceCall struct {
	ID           string            `json:"id"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Status       CallStatus        `json:"status"`
	Duration     int               `json:"duration,omitempty"`
	RecordingURL string            `json:"recording_url,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	AnsweredAt   *time.Time        `json:"answered_at,omitempty"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
}

// Recording is a call recording's metadata and download location.
type Recording struct {
	CallID    string    `json:"call_id"`
	URL       string    `json:"url"`
	Duration  int       `json:"duration"`
	Size      int64     `json:"size,omitempty"`
	Format    string    `json:"format,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCallParams are the parameters for CallsService.Create. Exactly one
// of TTSMessage and AudioURL must be set.
type CreateCallParams struct {
	// To is the recipient phone number in E.164 format.
	To string `json:"to"`
	// From is the caller ID number; must be verified with the service.
	From string `json:"from"`
	// TTSMessage is spoken to the callee via text-to-speech.
	TTSMessage string `json:"tts_message,omitempty"`
	// AudioURL plays a pre-recorded audio file instead of TTS.
	AudioURL string `json:"audio_url,omitempty"`
	// Voice selects the TTS voice. Default "alloy".
	Voice string `json:"voice"`
	// Language is the TTS language code. Default "en-US".
	Language string `json:"language"`
	// Record enables call recording.
	Record bool `json:"record"`
	// MachineDetection enables answering machine detection.
	MachineDetection bool              `json:"machine_detection"`
	WebhookURL       string            `json:"webhook_url,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`

	// IdempotencyKey makes retrying this create safe. See NewIdempotencyKey.
	IdempotencyKey string `json:"-"`
}

func (p *CreateCallParams) validate() error {
	var fields []FieldError
	if p.To == "" {
		fields = append(fields, FieldError{Field: "to", Message: "recipient phone number is required"})
	}
	if p.From == "" {
		fields = append(fields, FieldError{Field: "from", Message: "caller ID number is required"})
	}
	if p.TTSMessage == "" && p.AudioURL == "" {
		fields = append(fields, FieldError{Field: "tts_message", Message: "either tts_message or audio_url is required"})
	}
	if p.TTSMessage != "" && p.AudioURL != "" {
		fields = append(fields, FieldError{Field: "audio_url", Message: "tts_message and audio_url are mutually exclusive"})
	}
	if len(fields) > 0 {
		return validationError("invalid call parameters", fields)
	}
	return nil
}

// ListCallsOptions filter CallsService.List. Zero values are omitted.
type ListCallsOptions struct {
	Limit    int
	Offset   int
	Status   CallStatus
	FromDate time.Time
	ToDate   time.Time
}

func (o ListCallsOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	if !o.FromDate.IsZero() {
		q.Set("from_date", o.FromDate.Format(time.RFC3339))
	}
	if !o.ToDate.IsZero() {
		q.Set("to_date", o.ToDate.Format(time.RFC3339))
	}
	return q
}

// CallsService creates and manages voice calls.
type CallsService struct {
	api *api.Client
}

// Create initiates a voice call. Required: To, From, and exactly one of
// TTSMessage or AudioURL.
func (s *CallsService) Create(ctx context.Context, params CreateCallParams) (*VoiceCall, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if params.Voice == "" {
		params.Voice = "alloy"
	}
	if params.Language == "" {
		params.Language = "en-US"
	}

	req := &api.Request{
		Method:         http.MethodPost,
		Path:           "/calls",
		Body:           params,
		IdempotencyKey: params.IdempotencyKey,
	}
	var env struct {
		Data *VoiceCall `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// Get retrieves a call by ID.
func (s *CallsService) Get(ctx context.Context, callID string) (*VoiceCall, error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/calls/%s", url.PathEscape(callID)),
	}
	var env struct {
		Data *VoiceCall `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// List returns a page of calls, newest first.
func (s *CallsService) List(ctx context.Context, opts ListCallsOptions) (*ListPage[VoiceCall], error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   "/calls",
		Query:  opts.query(),
	}
	var page ListPage[VoiceCall]
	if err := s.api.Do(ctx, req, &page); err != nil {
		return nil, wrapError(err)
	}
	return &page, nil
}

// Hangup terminates an active call and returns its updated state.
func (s *CallsService) Hangup(ctx context.Context, callID string) (*VoiceCall, error) {
	req := &api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/calls/%s", url.PathEscape(callID)),
	}
	var env struct {
		Data *VoiceCall `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// GetRecording retrieves the recording for a recorded call.
func (s *CallsService) GetRecording(ctx context.Context, callID string) (*Recording, error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/calls/%s/recording", url.PathEscape(callID)),
	}
	var env struct {
		Data *Recording `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}
