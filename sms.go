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

// SMSStatus is the delivery state of an SMS message.
type SMSStatus string

// SMS statuses.
const (
	SMSStatusQueued    SMSStatus = "queued"
	SMSStatusSending   SMSStatus = "sending"
	SMSStatusSent      SMSStatus = "sent"
	SMSStatusDelivered SMSStatus = "delivered"
	SMSStatusFailed    SMSStatus = "failed"
)

// SMS is an SMS message as returned by the API.
type SMS struct {
	ID          string            `json:"id"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Message     string            `json:"message"`
	Status      SMSStatus         `json:"status"`
	Segments    int               `json:"segments"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	SentAt      *time.Time        `json:"sent_at,omitempty"`
	DeliveredAt *time.Time        `json:"delivered_at,omitempty"`
}

// SendSMSParams are the parameters for SMSService.Send.
type SendSMSParams struct {
	// To is the recipient phone number in E.164 format (+1234567890).
	To string `json:"to"`
	// Message is the SMS content.
	Message string `json:"message"`
	// From is the sender number; the account default applies when empty.
	From        string            `json:"from,omitempty"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	WebhookURL  string            `json:"webhook_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// IdempotencyKey makes retrying this send safe. See NewIdempotencyKey.
	IdempotencyKey string `json:"-"`
}

func (p *SendSMSParams) validate() error {
	var fields []FieldError
	if p.To == "" {
		fields = append(fields, FieldError{Field: "to", Message: "recipient phone number is required"})
	}
	if p.Message == "" {
		fields = append(fields, FieldError{Field: "message", Message: "message content is required"})
	}
	if len(fields) > 0 {
		return validationError("invalid SMS parameters", fields)
	}
	return nil
}

// ListSMSOptions filter SMSService.List. Zero values are omitted.
type ListSMSOptions struct {
	Limit    int
	Offset   int
	Status   SMSStatus
	FromDate time.Time
	ToDate   time.Time
}

func (o ListSMSOptions) query() url.Values {
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

// SMSService sends and manages SMS messages.
type SMSService struct {
	api *api.Client
}

// Send sends an SMS message. Required: To, Message.
func (s *SMSService) Send(ctx context.Context, params SendSMSParams) (*SMS, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	req := &api.Request{
		Method:         http.MethodPost,
		Path:           "/sms",
		Body:           params,
		IdempotencyKey: params.IdempotencyKey,
	}
	var env struct {
		Data *SMS `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// Get retrieves an SMS by ID.
func (s *SMSService) Get(ctx context.Context, smsID string) (*SMS, error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/sms/%s", url.PathEscape(smsID)),
	}
	var env struct {
		Data *SMS `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// List returns a page of SMS messages, newest first.
func (s *SMSService) List(ctx context.Context, opts ListSMSOptions) (*ListPage[SMS], error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   "/sms",
		Query:  opts.query(),
	}
	var page ListPage[SMS]
	if err := s.api.Do(ctx, req, &page); err != nil {
		return nil, wrapError(err)
	}
	return &page, nil
}

// Cancel cancels a scheduled SMS and returns its updated state.
func (s *SMSService) Cancel(ctx context.Context, smsID string) (*SMS, error) {
	req := &api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/sms/%s", url.PathEscape(smsID)),
	}
	var env struct {
		Data *SMS `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}
