package ekdsend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ekddigital/ekdsend-go/internal/api"
)

// EmailStatus is the delivery state of an email.
type EmailStatus string

// Email statuses.
const (
	EmailStatusQueued    EmailStatus = "queued"
	EmailStatusSending   EmailStatus = "sending"
	EmailStatusSent      EmailStatus = "sent"
	EmailStatusDelivered EmailStatus = "delivered"
	EmailStatusFailed    EmailStatus = "failed"
	EmailStatusBounced   EmailStatus = "bounced"
)

// Email is an email message as returned by the API. It is a read-only
// decoded payload; the SDK does not interpret its domain fields.
type Email struct {
	ID          string            `json:"id"`
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	Status      EmailStatus       `json:"status"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ScheduledAt *time.Time        `json:"scheduled_at,omitempty"`
	SentAt      *time.Time        `json:"sent_at,omitempty"`
	DeliveredAt *time.Time        `json:"delivered_at,omitempty"`
	OpenedAt    *time.Time        `json:"opened_at,omitempty"`
	ClickedAt   *time.Time        `json:"clicked_at,omitempty"`
	BouncedAt   *time.Time        `json:"bounced_at,omitempty"`
}

// Attachment is an email attachment. Content is base64-encoded.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"type"`
}

// SendEmailParams are the parameters for EmailsService.Send.
type SendEmailParams struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	CC          []string          `json:"cc,omitempty"`
	BCC         []string          `json:"bcc,omitempty"`
	ReplyTo     string            `json:"reply_to,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	// ScheduledAt defers the send to a future time.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`

	// IdempotencyKey makes retrying this send safe. Without it the SDK
	// never retries the POST, even on transient failures, to avoid
	// duplicate sends. See NewIdempotencyKey.
	IdempotencyKey string `json:"-"`
}

func (p *SendEmailParams) validate() error {
	var fields []FieldError
	if p.From == "" {
		fields = append(fields, FieldError{Field: "from", Message: "sender address is required"})
	}
	if len(p.To) == 0 {
		fields = append(fields, FieldError{Field: "to", Message: "at least one recipient is required"})
	}
	for _, addr := range p.To {
		if strings.TrimSpace(addr) == "" {
			fields = append(fields, FieldError{Field: "to", Message: "recipient address must not be empty"})
			break
		}
	}
	if p.Subject == "" {
		fields = append(fields, FieldError{Field: "subject", Message: "subject is required"})
	}
	if len(fields) > 0 {
		return validationError("invalid email parameters", fields)
	}
	return nil
}

// ListEmailsOptions filter EmailsService.List. Zero values are omitted.
// Filter semantics belong to the service; values pass through untouched.
type ListEmailsOptions struct {
	Limit    int
	Offset   int
	Status   EmailStatus
	FromDate time.Time
	ToDate   time.Time
	Tags     []string
}

func (o ListEmailsOptions) query() url.Values {
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
	if len(o.Tags) > 0 {
		q.Set("tags", strings.Join(o.Tags, ","))
	}
	return q
}

// EmailsService sends and manages email messages.
type EmailsService struct {
	api *api.Client
}

// Send sends an email. Required: From, at least one To, Subject.
// Obviously malformed input fails locally with a validation error before
// any network call.
func (s *EmailsService) Send(ctx context.Context, params SendEmailParams) (*Email, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	req := &api.Request{
		Method:         http.MethodPost,
		Path:           "/emails",
		Body:           params,
		IdempotencyKey: params.IdempotencyKey,
	}
	var env struct {
		Data *Email `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// Get retrieves an email by ID.
func (s *EmailsService) Get(ctx context.Context, emailID string) (*Email, error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/emails/%s", url.PathEscape(emailID)),
	}
	var env struct {
		Data *Email `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}

// List returns a page of emails, newest first.
func (s *EmailsService) List(ctx context.Context, opts ListEmailsOptions) (*ListPage[Email], error) {
	req := &api.Request{
		Method: http.MethodGet,
		Path:   "/emails",
		Query:  opts.query(),
	}
	var page ListPage[Email]
	if err := s.api.Do(ctx, req, &page); err != nil {
		return nil, wrapError(err)
	}
	return &page, nil
}

// Cancel cancels a scheduled email and returns its updated state.
func (s *EmailsService) Cancel(ctx context.Context, emailID string) (*Email, error) {
	req := &api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/emails/%s", url.PathEscape(emailID)),
	}
	var env struct {
		Data *Email `json:"data"`
	}
	if err := s.api.Do(ctx, req, &env); err != nil {
		return nil, wrapError(err)
	}
	return env.Data, nil
}
