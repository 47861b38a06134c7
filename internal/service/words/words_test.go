package words

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GenerateWord(ctx context.Context, theme string) (string, error) {
	args := m.Called(ctx, theme)
	return args.String(0), args.Error(1)
}

func firstIndex(int) int { return 0 }

func TestPicker_UsesSourceForTheme(t *testing.T) {
	src := &MockSource{}
	src.On("GenerateWord", mock.Anything, "pizza toppings").Return("pepperoni", nil)

	p := NewPicker(src, time.Second)

	word, fallback := p.Pick(context.Background(), "  pizza toppings ")

	assert.Equal(t, "pepperoni", word)
	assert.False(t, fallback)
	src.AssertExpectations(t)
}

func TestPicker_FallbackWithoutCallingSource(t *testing.T) {
	for _, theme := range []string{"", "   ", "random", "RANDOM please", "something Random"} {
		t.Run(theme, func(t *testing.T) {
			src := &MockSource{}
			p := NewPicker(src, time.Second, WithFallback([]string{"kite"}))

			word, fallback := p.Pick(context.Background(), theme)

			assert.Equal(t, "kite", word)
			assert.True(t, fallback)
			src.AssertNotCalled(t, "GenerateWord", mock.Anything, mock.Anything)
		})
	}
}

func TestPicker_FallbackOnError(t *testing.T) {
	src := &MockSource{}
	src.On("GenerateWord", mock.Anything, "space").Return("", errors.New("boom"))

	p := NewPicker(src, time.Second, WithRand(firstIndex))

	word, fallback := p.Pick(context.Background(), "space")

	assert.Equal(t, Fallback[0], word)
	assert.True(t, fallback)
}

func TestPicker_FallbackOnBlankWord(t *testing.T) {
	src := &MockSource{}
	src.On("GenerateWord", mock.Anything, "ocean").Return("  ", nil)

	p := NewPicker(src, time.Second, WithFallback([]string{"whale"}))

	word, fallback := p.Pick(context.Background(), "ocean")

	assert.Equal(t, "whale", word)
	assert.True(t, fallback)
}

func TestPicker_AppliesTimeout(t *testing.T) {
	src := &MockSource{}
	src.On("GenerateWord", mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	p := NewPicker(src, 20*time.Millisecond, WithFallback([]string{"snail"}))

	start := time.Now()
	word, fallback := p.Pick(context.Background(), "slow")

	assert.Equal(t, "snail", word)
	assert.True(t, fallback)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPicker_NilSource(t *testing.T) {
	p := NewPicker(nil, 0, WithFallback([]string{"moon"}))

	word, fallback := p.Pick(context.Background(), "space")

	assert.Equal(t, "moon", word)
	assert.True(t, fallback)
}

func TestChatClient_GenerateWord(t *testing.T) {
	var got chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"\"Pepperoni.\"\nextra"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "key", "test-model", 0, 0)

	word, err := c.GenerateWord(context.Background(), "pizza toppings")
	require.NoError(t, err)

	assert.Equal(t, "pepperoni", word)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, `"pizza toppings"`)
}

func TestChatClient_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		},
		"only punctuation": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":"..."}}]}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewChatClient(srv.URL, "", "m", 0, 0)

			_, err := c.GenerateWord(context.Background(), "theme")
			assert.Error(t, err)
		})
	}
}

func TestChatClient_RateLimitedContext(t *testing.T) {
	c := NewChatClient("http://127.0.0.1:1", "", "m", 0.001, 1)

	// 第一次消耗掉令牌
	c.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.GenerateWord(ctx, "theme")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCleanWord(t *testing.T) {
	assert.Equal(t, "ice cream", cleanWord("  Ice Cream!  "))
	assert.Equal(t, "cat", cleanWord("'cat'\nbecause cats are easy"))
	assert.Equal(t, "", cleanWord("?!"))
}
