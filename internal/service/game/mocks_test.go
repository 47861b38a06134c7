package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- WordPicker ---

type MockWordPicker struct {
	mock.Mock
}

func (m *MockWordPicker) Pick(ctx context.Context, theme string) (string, bool) {
	args := m.Called(ctx, theme)
	return args.String(0), args.Bool(1)
}

func pickerReturning(theme, word string) *MockWordPicker {
	p := &MockWordPicker{}
	p.On("Pick", mock.Anything, theme).Return(word, false)
	return p
}

// --- Channel ---

type fakeChannel struct {
	id string

	mu       sync.Mutex
	msgs     []any
	closed   bool
	failSend bool
}

func newFakeChannel(id string) *fakeChannel {
	return &fakeChannel{id: id}
}

func (f *fakeChannel) ID() string {
	return f.id
}

func (f *fakeChannel) Send(msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend {
		return errors.New("broken pipe")
	}

	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeChannel) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *fakeChannel) messages() []any {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]any, len(f.msgs))
	copy(out, f.msgs)
	return out
}

func (f *fakeChannel) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.msgs = nil
}

// types 按发送顺序返回每条消息的 type 字段
func (f *fakeChannel) types() []string {
	var out []string

	for _, m := range f.messages() {
		data, _ := json.Marshal(m)

		var env envelope
		_ = json.Unmarshal(data, &env)

		out = append(out, env.Type)
	}

	return out
}

func (f *fakeChannel) hasType(typ string) bool {
	for _, t := range f.types() {
		if t == typ {
			return true
		}
	}

	return false
}

func lastOf[T any](f *fakeChannel) (T, bool) {
	msgs := f.messages()

	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(T); ok {
			return m, true
		}
	}

	var zero T
	return zero, false
}

func allOf[T any](f *fakeChannel) []T {
	var out []T

	for _, m := range f.messages() {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}

	return out
}

// --- machine helpers ---

func newTestMachine(t *testing.T, roomID string, picker WordPicker, opts ...MachineOption) *RoomMachine {
	t.Helper()

	doneCh := make(chan struct{})
	t.Cleanup(func() { close(doneCh) })

	rm := NewRoomMachine(roomID, picker, doneCh, opts...)
	rm.handler.OnEnter(rm.ctx)

	return rm
}

// pump 处理一个由状态机自己投递的事件（取词结果）
func pump(t *testing.T, rm *RoomMachine) {
	t.Helper()

	select {
	case ev := <-rm.events:
		rm.dispatch(ev)
	case <-time.After(time.Second):
		require.FailNow(t, "no event arrived")
	}
}

func requireRoomConsistent(t *testing.T, rm *RoomMachine) {
	t.Helper()

	require.Equal(t, rm.ctx.Mode, rm.handler.Stage(), "handler out of sync with mode")
	require.Equal(t,
		rm.ctx.Mode == MODE_ACTIVE_ROUND,
		rm.ctx.TargetWord != "",
		"targetWord must be set iff mode is active-round (mode=%s word=%q)", rm.ctx.Mode, rm.ctx.TargetWord,
	)
}

// roomWithParticipants 接入来电者、画手和猜词方，并清空欢迎消息
func roomWithParticipants(t *testing.T, picker WordPicker) (*RoomMachine, *fakeChannel, *fakeChannel, *fakeChannel) {
	t.Helper()

	rm := newTestMachine(t, "4242", picker)

	speech := newFakeChannel("speech")
	drawer := newFakeChannel("drawer")
	guesser := newFakeChannel("guesser")

	rm.dispatch(SpeechAttached{Ch: speech})
	rm.dispatch(WebJoined{Ch: drawer, Role: ROLE_DRAWER})
	rm.dispatch(WebJoined{Ch: guesser, Role: ROLE_GUESSER})

	speech.reset()
	drawer.reset()
	guesser.reset()

	return rm, speech, drawer, guesser
}

// startRound 让来电者说出主题并处理取词结果
func startRound(t *testing.T, rm *RoomMachine, speech Channel, theme string) {
	t.Helper()

	rm.dispatch(SpeechPrompt{Ch: speech, Text: theme})
	pump(t, rm)

	require.Equal(t, MODE_ACTIVE_ROUND, rm.ctx.Mode)
}
