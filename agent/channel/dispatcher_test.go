package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	calls []string
	delay time.Duration
}

func (h *recordingHandler) HandleMessage(ctx context.Context, userID string, text string) (string, error) {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("message is empty")
	}
	h.mu.Lock()
	h.calls = append(h.calls, userID+":"+text)
	h.mu.Unlock()
	return "echo " + text, nil
}

type recordingSender struct {
	mu      sync.Mutex
	replies map[string][]string
}

func (s *recordingSender) Send(_ context.Context, ev Event, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replies == nil {
		s.replies = map[string][]string{}
	}
	s.replies[ev.UserID] = append(s.replies[ev.UserID], text)
	return nil
}

func TestNewDispatcherValidation(t *testing.T) {
	t.Parallel()

	_, err := NewDispatcher(nil, "hi")
	require.Error(t, err)

	_, err = NewDispatcher(&recordingHandler{}, "  ")
	require.Error(t, err)
}

func TestRespondGreetingSkipsHandler(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{}
	d, err := NewDispatcher(h, "Welcome!")
	require.NoError(t, err)

	for _, cmd := range []string{CommandStart, CommandHelp} {
		reply, err := d.Respond(context.Background(), Event{UserID: "1", Command: cmd, Text: "/" + cmd})
		require.NoError(t, err)
		assert.Equal(t, "Welcome!", reply)
	}
	assert.Empty(t, h.calls)

	reply, err := d.Respond(context.Background(), Event{UserID: "1", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo hi", reply)
	assert.Equal(t, []string{"1:hi"}, h.calls)
}

func TestDispatchKeepsPerUserOrder(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{delay: time.Millisecond}
	d, err := NewDispatcher(h, "Welcome!", WithMaxWorkers(4))
	require.NoError(t, err)

	sender := &recordingSender{}
	ctx := context.Background()
	const perUser = 20
	for i := 0; i < perUser; i++ {
		for _, user := range []string{"a", "b", "c"} {
			d.Dispatch(ctx, Event{UserID: user, Text: fmt.Sprintf("m%02d", i)}, sender)
		}
	}
	d.Wait()

	for _, user := range []string{"a", "b", "c"} {
		got := sender.replies[user]
		require.Len(t, got, perUser)
		for i, reply := range got {
			assert.Equal(t, fmt.Sprintf("echo m%02d", i), reply)
		}
	}
}

func TestDispatchDropsInvalidMessages(t *testing.T) {
	t.Parallel()

	d, err := NewDispatcher(&recordingHandler{}, "Welcome!")
	require.NoError(t, err)

	sender := &recordingSender{}
	d.Dispatch(context.Background(), Event{UserID: "1", Text: " "}, sender)
	d.Dispatch(context.Background(), Event{UserID: "1", Command: CommandStart, Text: "/start"}, sender)
	d.Wait()

	assert.Equal(t, []string{"Welcome!"}, sender.replies["1"])
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "/start", want: "start"},
		{in: " /help@cakebot extra", want: "help"},
		{in: "/START", want: "start"},
		{in: "hello /start", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCommand(tc.in), tc.in)
	}
}
