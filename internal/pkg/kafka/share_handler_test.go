package kafka

import (
	"ShareLens/internal/api/dto"
	"ShareLens/internal/service"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShareService struct {
	mu       sync.Mutex
	requests []*dto.ShareRequest
	callers  []*dto.Caller
	err      error
}

func (f *fakeShareService) RecordShare(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error) {
	return nil, errors.New("rate limited path must not be used")
}

func (f *fakeShareService) RecordTrusted(ctx context.Context, req *dto.ShareRequest, caller *dto.Caller) (*dto.ShareAckDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.callers = append(f.callers, caller)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ShareAckDTO{Success: true, Platform: req.Platform, ContentID: req.ContentID}, nil
}

type fakeSession struct {
	ctx       context.Context
	marked    []int64
	commits   int
	markMutex sync.Mutex
}

func (s *fakeSession) Claims() map[string][]int32 {
	return nil
}

func (s *fakeSession) MemberID() string {
	return "test"
}

func (s *fakeSession) GenerationID() int32 {
	return 1
}

func (s *fakeSession) MarkOffset(string, int32, int64, string) {}

func (s *fakeSession) ResetOffset(string, int32, int64, string) {}

func (s *fakeSession) Context() context.Context {
	return s.ctx
}

func (s *fakeSession) Commit() {
	s.commits++
}

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.markMutex.Lock()
	defer s.markMutex.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

func message(offset int64, value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "share-events", Offset: offset, Value: []byte(value)}
}

func TestShareHandler_LogicRecordsTrustedShare(t *testing.T) {
	svc := &fakeShareService{}
	h := NewShareHandler(svc)

	err := h.logic(context.Background(), message(1,
		`{"platform":"email","contentId":42,"url":"https://blog.example.com/p/42","callerIp":"10.0.0.1","callerId":"mailer"}`))
	require.NoError(t, err)

	require.Len(t, svc.requests, 1)
	assert.Equal(t, "email", svc.requests[0].Platform)
	assert.Equal(t, uint64(42), svc.requests[0].ContentID)
	assert.Equal(t, "https://blog.example.com/p/42", svc.requests[0].URL)
	assert.Equal(t, "mailer", svc.callers[0].ID)
	assert.Equal(t, "10.0.0.1", svc.callers[0].IP)
}

func TestShareHandler_LogicDropsMalformedMessage(t *testing.T) {
	svc := &fakeShareService{}
	h := NewShareHandler(svc)

	assert.NoError(t, h.logic(context.Background(), message(1, `{"platform":`)))
	assert.Empty(t, svc.requests)
}

func TestShareHandler_LogicDropsRejectedShare(t *testing.T) {
	for _, rejected := range []error{service.ErrMissingPlatform, service.ErrInvalidContent, service.ErrParamInvalid} {
		svc := &fakeShareService{err: rejected}
		h := NewShareHandler(svc)
		assert.NoError(t, h.logic(context.Background(), message(1, `{"platform":"email","contentId":9}`)), rejected.Error())
	}
}

func TestShareHandler_LogicRetriesStorageFailure(t *testing.T) {
	svc := &fakeShareService{err: service.UnExpectedError}
	h := NewShareHandler(svc)

	err := h.logic(context.Background(), message(1, `{"platform":"email","contentId":42}`))
	assert.ErrorIs(t, err, service.UnExpectedError)

	svc.err = errors.New("connection reset")
	assert.Error(t, h.logic(context.Background(), message(2, `{"platform":"email","contentId":42}`)))
}

func TestProcessBatch_RetriesUntilSuccessThenCommits(t *testing.T) {
	session := &fakeSession{ctx: context.Background()}
	var attempts atomic.Int32
	logic := func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		if msg.Offset == 2 && attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}

	processBatch(session, []*sarama.ConsumerMessage{message(1, "a"), message(2, "b"), message(3, "c")}, logic)

	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, []int64{3}, session.marked)
	assert.Equal(t, 1, session.commits)
}

func TestProcessBatch_StopsOnCancelledSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session := &fakeSession{ctx: ctx}

	processBatch(session, []*sarama.ConsumerMessage{message(1, "a")}, func(context.Context, *sarama.ConsumerMessage) error {
		return errors.New("always failing")
	})

	assert.Empty(t, session.marked)
	assert.Zero(t, session.commits)
}
