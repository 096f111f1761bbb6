package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"climatejobs/internal/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Handle(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func TestDispatcher_FansOutToAllSinks(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}
	d := NewDispatcher(logger.NewTest(t), time.Second, failing, ok)

	d.Emit(context.Background(), Event{Type: ApplicationCreated, JobID: "job-1"})
	d.Wait()

	require.Len(t, failing.events, 1)
	require.Len(t, ok.events, 1)
	assert.Equal(t, ApplicationCreated, ok.events[0].Type)
	assert.False(t, ok.events[0].OccurredAt.IsZero())
}

func TestDispatcher_SurvivesCancelledProducerContext(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(nil, time.Second, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Emit(ctx, Event{Type: PaymentPaid})
	d.Wait()

	assert.Len(t, sink.events, 1)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Emit(context.Background(), Event{Type: PaymentPaid})
	d.Wait()
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestSNSPublisher_Handle(t *testing.T) {
	client := new(mockSNS)
	p := &SNSPublisher{client: client, topicARN: "arn:aws:sns:us-east-1:123:jobs"}

	client.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var e Event
		if err := json.Unmarshal([]byte(*in.Message), &e); err != nil {
			return false
		}
		return *in.TopicArn == "arn:aws:sns:us-east-1:123:jobs" &&
			*in.MessageAttributes["event_type"].StringValue == string(SubmissionApproved) &&
			e.JobID == "job-9"
	})).Return(&sns.PublishOutput{}, nil)

	err := p.Handle(context.Background(), Event{Type: SubmissionApproved, JobID: "job-9"})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSNSPublisher_HandleError(t *testing.T) {
	client := new(mockSNS)
	p := &SNSPublisher{client: client, topicARN: "arn"}
	client.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := p.Handle(context.Background(), Event{Type: PaymentPaid})
	assert.ErrorContains(t, err, "throttled")
}
