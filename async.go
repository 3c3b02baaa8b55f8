package ekdsend

import (
	"context"
)

// Future is the result of a non-blocking call. The underlying request runs
// on its own goroutine through the same executor as the blocking methods,
// so retry behavior and error classification are identical for both
// surfaces.
//
// Cancelling the context passed at launch aborts the in-flight attempt and
// any pending retry delay; the transport connection is released, not leaked.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn(ctx)
		close(f.done)
	}()
	return f
}

// Done returns a channel that is closed when the call completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call completes or ctx is cancelled. Cancelling
// the wait context abandons the wait but does not cancel the underlying
// call; cancel the launch context for that.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.value, f.err
	}
}

// SendAsync is the non-blocking variant of Send.
func (s *EmailsService) SendAsync(ctx context.Context, params SendEmailParams) *Future[*Email] {
	return newFuture(ctx, func(ctx context.Context) (*Email, error) {
		return s.Send(ctx, params)
	})
}

// GetAsync is the non-blocking variant of Get.
func (s *EmailsService) GetAsync(ctx context.Context, emailID string) *Future[*Email] {
	return newFuture(ctx, func(ctx context.Context) (*Email, error) {
		return s.Get(ctx, emailID)
	})
}

// ListAsync is the non-blocking variant of List.
func (s *EmailsService) ListAsync(ctx context.Context, opts ListEmailsOptions) *Future[*ListPage[Email]] {
	return newFuture(ctx, func(ctx context.Context) (*ListPage[Email], error) {
		return s.List(ctx, opts)
	})
}

// CancelAsync is the non-blocking variant of Cancel.
func (s *EmailsService) CancelAsync(ctx context.Context, emailID string) *Future[*Email] {
	return newFuture(ctx, func(ctx context.Context) (*Email, error) {
		return s.Cancel(ctx, emailID)
	})
}

// SendAsync is the non-blocking variant of Send.
func (s *SMSService) SendAsync(ctx context.Context, params SendSMSParams) *Future[*SMS] {
	return newFuture(ctx, func(ctx context.Context) (*SMS, error) {
		return s.Send(ctx, params)
	})
}

// GetAsync is the non-blocking variant of Get.
func (s *SMSService) GetAsync(ctx context.Context, smsID string) *Future[*SMS] {
	return newFuture(ctx, func(ctx context.Context) (*SMS, error) {
		return s.Get(ctx, smsID)
	})
}

// ListAsync is the non-blocking variant of List.
func (s *SMSService) ListAsync(ctx context.Context, opts ListSMSOptions) *Future[*ListPage[SMS]] {
	return newFuture(ctx, func(ctx context.Context) (*ListPage[SMS], error) {
		return s.List(ctx, opts)
	})
}

// CancelAsync is the non-blocking variant of Cancel.
func (s *SMSService) CancelAsync(ctx context.Context, smsID string) *Future[*SMS] {
	return newFuture(ctx, func(ctx context.Context) (*SMS, error) {
		return s.Cancel(ctx, smsID)
	})
}

// CreateAsync is the non-blocking variant of Create.
func (s *CallsService) CreateAsync(ctx context.Context, params CreateCallParams) *Future[*VoiceCall] {
	return newFuture(ctx, func(ctx context.Context) (*VoiceCall, error) {
		return s.Create(ctx, params)
	})
}

// GetAsync is the non-blocking variant of Get.
func (s *CallsService) GetAsync(ctx context.Context, callID string) *Future[*VoiceCall] {
	return newFuture(ctx, func(ctx context.Context) (*VoiceCall, error) {
		return s.Get(ctx, callID)
	})
}

// ListAsync is the non-blocking variant of List.
func (s *CallsService) ListAsync(ctx context.Context, opts ListCallsOptions) *Future[*ListPage[VoiceCall]] {
	return newFuture(ctx, func(ctx context.Context) (*ListPage[VoiceCall], error) {
		return s.List(ctx, opts)
	})
}

// HangupAsync is the non-blocking variant of Hangup.
func (s *CallsService) HangupAsync(ctx context.Context, callID string) *Future[*VoiceCall] {
	return newFuture(ctx, func(ctx context.Context) (*VoiceCall, error) {
		return s.Hangup(ctx, callID)
	})
}

// GetRecordingAsync is the non-blocking variant of GetRecording.
func (s *CallsService) GetRecordingAsync(ctx context.Context, callID string) *Future[*Recording] {
	return newFuture(ctx, func(ctx context.Context) (*Recording, error) {
		return s.GetRecording(ctx, callID)
	})
}
