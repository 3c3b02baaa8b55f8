package ekdsend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestSMS_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sms" {
			t.Errorf("%s %s, want POST /sms", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body["to"] != "+15551234567" {
			t.Errorf("to = %v", body["to"])
		}
		if body["message"] != "Your code is 1234" {
			t.Errorf("message = %v", body["message"])
		}

		w.Write([]byte(`{"data":{
			"id": "sms_123",
			"to": "+15551234567",
			"message": "Your code is 1234",
			"status": "queued",
			"segments": 1,
			"created_at": "2026-08-30T10:00:00Z"
		}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	sms, err := c.SMS.Send(context.Background(), SendSMSParams{
		To:      "+15551234567",
		Message: "Your code is 1234",
	})
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if sms.ID != "sms_123" {
		t.Errorf("ID = %q", sms.ID)
	}
	if sms.Segments != 1 {
		t.Errorf("Segments = %d, want 1", sms.Segments)
	}
}

func TestSMS_SendValidatesLocally(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.SMS.Send(context.Background(), SendSMSParams{Message: "hi"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Send() without to: error = %v, want ErrValidation", err)
	}

	_, err = c.SMS.Send(context.Background(), SendSMSParams{To: "+15551234567"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Send() without message: error = %v, want ErrValidation", err)
	}

	if got := requests.Load(); got != 0 {
		t.Errorf("server saw %d requests, want 0", got)
	}
}

func TestSMS_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sms/sms_123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":"sms_123","status":"delivered"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	sms, err := c.SMS.Get(context.Background(), "sms_123")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if sms.Status != SMSStatusDelivered {
		t.Errorf("Status = %q, want delivered", sms.Status)
	}
}

func TestSMS_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "failed" {
			t.Errorf("status = %q, want failed", q.Get("status"))
		}
		w.Write([]byte(`{"data":[{"id":"sms_9"}],"total":1,"limit":50,"offset":0,"has_more":false}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	page, err := c.SMS.List(context.Background(), ListSMSOptions{Status: SMSStatusFailed})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != "sms_9" {
		t.Errorf("Data = %+v", page.Data)
	}
}

func TestSMS_Cancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/sms/sms_5" {
			t.Errorf("%s %s, want DELETE /sms/sms_5", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":"sms_5","status":"failed"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	if _, err := c.SMS.Cancel(context.Background(), "sms_5"); err != nil {
		t.Fatalf("Cancel() failed: %v", err)
	}
}
