package middleware

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"catalogbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

func TestRecover(t *testing.T) {
	handler := Recover(testutil.NewTestLogger())(func(c tele.Context) error {
		panic("boom")
	})
	c := testutil.NewFakeContext(1, "/list_items")

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, []string{msgHandlerFailed}, c.Sent)
}

func TestRecover_PassesThroughErrors(t *testing.T) {
	want := errors.New("send failed")
	handler := Recover(testutil.NewTestLogger())(func(c tele.Context) error {
		return want
	})

	assert.ErrorIs(t, handler(testutil.NewFakeContext(1, "hi")), want)
}

type countingLocker struct {
	mu     sync.Mutex
	locked map[int64]int
}

func (l *countingLocker) Lock(chatUserID int64) func() {
	l.mu.Lock()
	l.locked[chatUserID]++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.locked[chatUserID]--
		l.mu.Unlock()
	}
}

func TestSerialize(t *testing.T) {
	locker := &countingLocker{locked: make(map[int64]int)}
	var heldDuringHandler int

	handler := Serialize(locker)(func(c tele.Context) error {
		locker.mu.Lock()
		heldDuringHandler = locker.locked[5]
		locker.mu.Unlock()
		return nil
	})

	require.NoError(t, handler(testutil.NewFakeContext(5, "hi")))

	assert.Equal(t, 1, heldDuringHandler)
	assert.Equal(t, 0, locker.locked[5])
}

func TestSerialize_NoSender(t *testing.T) {
	locker := &countingLocker{locked: make(map[int64]int)}
	called := false
	handler := Serialize(locker)(func(c tele.Context) error {
		called = true
		return nil
	})
	c := testutil.NewFakeContext(5, "hi")
	c.SenderUser = nil

	require.NoError(t, handler(c))

	assert.True(t, called)
	assert.Empty(t, locker.locked)
}

func TestLogUpdates_NeverLogsText(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := LogUpdates(zap.New(core))(func(c tele.Context) error {
		return nil
	})

	require.NoError(t, handler(testutil.NewFakeContext(3, "alice secret")))
	require.NoError(t, handler(testutil.NewFakeContext(3, "/buy_item@catalog_bot 4 2")))

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		for _, v := range e.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "secret")
		}
	}
	assert.NotContains(t, entries[0].ContextMap(), "command")
	assert.Equal(t, "/buy_item", entries[1].ContextMap()["command"])
	assert.Equal(t, "message", entries[1].ContextMap()["kind"])
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "/start", expected: "/start"},
		{input: "  /item_info 4", expected: "/item_info"},
		{input: "/help@catalog_bot", expected: "/help"},
		{input: "alice secret", expected: ""},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, commandName(tt.input))
		})
	}
}

func TestRateLimit(t *testing.T) {
	calls := 0
	handler := RateLimit(time.Hour, testutil.NewTestLogger())(func(c tele.Context) error {
		calls++
		return nil
	})

	first := testutil.NewFakeContext(1, "/help")
	second := testutil.NewFakeContext(1, "/help")
	other := testutil.NewFakeContext(2, "/help")

	require.NoError(t, handler(first))
	require.NoError(t, handler(second))
	require.NoError(t, handler(other))

	assert.Equal(t, 2, calls)
	assert.Empty(t, first.Sent)
	assert.Equal(t, []string{msgRateLimited}, second.Sent)
}

func TestRateLimit_Disabled(t *testing.T) {
	calls := 0
	handler := RateLimit(0, testutil.NewTestLogger())(func(c tele.Context) error {
		calls++
		return nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, handler(testutil.NewFakeContext(1, "/help")))
	}

	assert.Equal(t, 3, calls)
}
