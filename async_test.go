package ekdsend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFuture_DeliversResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"em_async","status":"queued"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	future := c.Emails.SendAsync(context.Background(), SendEmailParams{
		From:    "a@b.com",
		To:      []string{"c@d.com"},
		Subject: "Hi",
	})

	email, err := future.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if email.ID != "em_async" {
		t.Errorf("ID = %q, want em_async", email.ID)
	}

	// Done stays closed; a second Wait returns the same result.
	select {
	case <-future.Done():
	default:
		t.Error("Done() channel not closed after completion")
	}
	again, err := future.Wait(context.Background())
	if err != nil || again.ID != "em_async" {
		t.Errorf("second Wait() = %v, %v", again, err)
	}
}

func TestFuture_MatchesBlockingErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, blockingErr := c.SMS.Get(context.Background(), "sms_x")
	_, asyncErr := c.SMS.GetAsync(context.Background(), "sms_x").Wait(context.Background())

	if !errors.Is(blockingErr, ErrNotFound) {
		t.Errorf("blocking error = %v, want ErrNotFound", blockingErr)
	}
	if !errors.Is(asyncErr, ErrNotFound) {
		t.Errorf("async error = %v, want ErrNotFound", asyncErr)
	}
}

func TestFuture_LocalValidationError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Calls.CreateAsync(context.Background(), CreateCallParams{}).Wait(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Wait() error = %v, want ErrValidation", err)
	}
	if got := requests.Load(); got != 0 {
		t.Errorf("server saw %d requests, want 0", got)
	}
}

func TestFuture_CancelDuringRetryDelay(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"down"}`))
	}))
	defer server.Close()

	// Long retry delay so cancellation lands mid-wait.
	c := newTestClient(t, server.URL, WithRetryConfig(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  10 * time.Second,
		MaxDelay:   30 * time.Second,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	future := c.Emails.GetAsync(ctx, "em_1")

	time.Sleep(50 * time.Millisecond)
	cancel()

	start := time.Now()
	_, err := future.Wait(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, want prompt", elapsed)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestFuture_WaitContextAbandonsWithoutCancelling(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"data":{"id":"em_slow"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, WithTimeout(5*time.Second))
	future := c.Emails.GetAsync(context.Background(), "em_slow")

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := future.Wait(waitCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want context.DeadlineExceeded", err)
	}

	// The underlying call is still running and completes normally.
	close(release)
	email, err := future.Wait(context.Background())
	if err != nil {
		t.Fatalf("second Wait() failed: %v", err)
	}
	if email.ID != "em_slow" {
		t.Errorf("ID = %q, want em_slow", email.ID)
	}
}

func TestFuture_ConcurrentCalls(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"data":{"id":"sms_1","status":"queued"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := context.Background()

	futures := make([]*Future[*SMS], 10)
	for i := range futures {
		futures[i] = c.SMS.SendAsync(ctx, SendSMSParams{
			To:      "+15551234567",
			Message: "hello",
		})
	}
	for i, f := range futures {
		if _, err := f.Wait(ctx); err != nil {
			t.Errorf("future %d: Wait() failed: %v", i, err)
		}
	}
	if got := requests.Load(); got != 10 {
		t.Errorf("requests = %d, want 10", got)
	}
}
