package messagerouter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haguru/courier/internal/interfaces/mocks"
	"github.com/haguru/courier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *mocks.MessageRepository) *Router {
	router := NewRouter(repo, &mocks.Logger{})
	router.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return router
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		request SendRequest
		want    models.Message
	}{
		{
			name:    "broadcast leaves recipient and group empty",
			request: SendRequest{Content: "hello everyone"},
			want: models.Message{
				Sender:    "alice",
				Content:   "hello everyone",
				Timestamp: 1700000000000,
			},
		},
		{
			name:    "direct sets only the recipient",
			request: SendRequest{Content: "hi bob", Recipient: "bob"},
			want: models.Message{
				Sender:    "alice",
				Recipient: "bob",
				Content:   "hi bob",
				Timestamp: 1700000000000,
			},
		},
		{
			name:    "group sets only the group id",
			request: SendRequest{Content: "standup in 5", GroupID: "team-1"},
			want: models.Message{
				Sender:    "alice",
				GroupID:   "team-1",
				Content:   "standup in 5",
				Timestamp: 1700000000000,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MessageRepository{}
			repo.On("AddMessage", mock.Anything, tt.want).Return("msg-1", nil)

			err := newTestRouter(repo).Send(ctx, "alice", tt.request)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestSend_AmbiguousTarget(t *testing.T) {
	repo := &mocks.MessageRepository{}

	err := newTestRouter(repo).Send(context.Background(), "alice", SendRequest{
		Content:   "which is it",
		Recipient: "bob",
		GroupID:   "team-1",
	})

	assert.ErrorIs(t, err, ErrAmbiguousTarget)
	repo.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}

func TestSend_SenderNotClientControlled(t *testing.T) {
	repo := &mocks.MessageRepository{}
	repo.On("AddMessage", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.Sender == "alice"
	})).Return("msg-1", nil)

	err := newTestRouter(repo).Send(context.Background(), "alice", SendRequest{Content: "hello"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSend_TimestampFromServerClock(t *testing.T) {
	repo := &mocks.MessageRepository{}
	var captured models.Message
	repo.On("AddMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(models.Message)
		}).
		Return("msg-1", nil)

	router := NewRouter(repo, &mocks.Logger{})
	before := time.Now().UnixMilli()
	err := router.Send(context.Background(), "alice", SendRequest{Content: "hello"})
	after := time.Now().UnixMilli()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, captured.Timestamp, before)
	assert.LessOrEqual(t, captured.Timestamp, after)
}

func TestSend_StoreFailure(t *testing.T) {
	repo := &mocks.MessageRepository{}
	storeErr := errors.New("connection refused")
	repo.On("AddMessage", mock.Anything, mock.Anything).Return("", storeErr)

	err := newTestRouter(repo).Send(context.Background(), "alice", SendRequest{Content: "hello"})
	assert.ErrorIs(t, err, storeErr)
}

func TestList(t *testing.T) {
	t.Run("returns messages in stored order", func(t *testing.T) {
		stored := []models.Message{
			{ID: "1", Sender: "alice", Content: "first", Timestamp: 1},
			{ID: "2", Sender: "bob", Recipient: "alice", Content: "second", Timestamp: 2},
			{ID: "3", Sender: "carol", GroupID: "team-1", Content: "third", Timestamp: 3},
		}
		repo := &mocks.MessageRepository{}
		repo.On("ListMessages", mock.Anything).Return(stored, nil)

		messages, err := newTestRouter(repo).List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stored, messages)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := &mocks.MessageRepository{}
		storeErr := errors.New("connection refused")
		repo.On("ListMessages", mock.Anything).Return(nil, storeErr)

		_, err := newTestRouter(repo).List(context.Background())
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestMode(t *testing.T) {
	tests := []struct {
		name    string
		message models.Message
		want    string
	}{
		{name: "neither field set", message: models.Message{}, want: "broadcast"},
		{name: "recipient set", message: models.Message{Recipient: "bob"}, want: "direct"},
		{name: "group set", message: models.Message{GroupID: "team-1"}, want: "group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mode(tt.message))
		})
	}
}
