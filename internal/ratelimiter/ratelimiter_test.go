package ratelimiter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []time.Time
	chats []int64
	block chan struct{}
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, time.Now())
	s.chats = append(s.chats, getChatID(c))

	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetDelay(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		rate     time.Duration
		lastSent time.Time
		wantZero bool
	}{
		{
			"Private chat - no delay needed",
			DefaultPrivateChatRate,
			now.Add(-2 * time.Second),
			true,
		},
		{
			"Private chat - delay needed",
			DefaultPrivateChatRate,
			now.Add(-500 * time.Millisecond),
			false,
		},
		{
			"Group chat - no delay needed",
			DefaultGroupChatRate,
			now.Add(-4 * time.Second),
			true,
		},
		{
			"Group chat - delay needed",
			DefaultGroupChatRate,
			now.Add(-1 * time.Second),
			false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := getDelay(test.rate, test.lastSent)

			if test.wantZero && got > 0 {
				t.Errorf("Expected zero delay, got %v", got)
			}

			if !test.wantZero && got <= 0 {
				t.Errorf("Expected positive delay, got %v", got)
			}
		})
	}
}

func TestGetChatID(t *testing.T) {
	tests := []struct {
		name    string
		message tgbotapi.Chattable
		want    int64
	}{
		{
			"MessageConfig",
			tgbotapi.NewMessage(12345, "test"),
			12345,
		},
		{
			"ChatActionConfig",
			tgbotapi.NewChatAction(67890, tgbotapi.ChatTyping),
			67890,
		},
		{
			"DocumentConfig",
			tgbotapi.NewDocument(-100, tgbotapi.FileBytes{Name: "summary.md", Bytes: []byte("x")}),
			-100,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := getChatID(test.message)

			if got != test.want {
				t.Errorf("Expected %v chatID, got %v", test.want, got)
			}
		})
	}
}

func TestGetRate(t *testing.T) {
	rl := &RateLimiter{rates: Options{PrivateChatRate: time.Second, GroupChatRate: 3 * time.Second}}

	if got := rl.getRate(1); got != time.Second {
		t.Errorf("Expected private rate, got %v", got)
	}

	if got := rl.getRate(-1); got != 3*time.Second {
		t.Errorf("Expected group rate, got %v", got)
	}
}

func TestNewAppliesDefaultRates(t *testing.T) {
	rl := New(&fakeSender{}, Options{}, discardLogger())
	defer rl.Stop()

	if rl.rates.PrivateChatRate != DefaultPrivateChatRate || rl.rates.GroupChatRate != DefaultGroupChatRate {
		t.Fatalf("unexpected rates: %+v", rl.rates)
	}
}

func TestSendPacesSameChat(t *testing.T) {
	const rate = 50 * time.Millisecond

	sender := &fakeSender{}
	rl := New(sender, Options{PrivateChatRate: rate, GroupChatRate: rate}, discardLogger())
	defer rl.Stop()

	ctx := context.Background()

	for range 3 {
		if _, err := rl.Send(ctx, tgbotapi.NewMessage(42, "part")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()

	if len(sender.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(sender.sent))
	}

	for i := 1; i < len(sender.sent); i++ {
		if gap := sender.sent[i].Sub(sender.sent[i-1]); gap < rate-5*time.Millisecond {
			t.Errorf("messages %d and %d sent %v apart, want at least %v", i-1, i, gap, rate)
		}
	}
}

func TestSendHonoursCallerContext(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	rl := New(sender, Options{}, discardLogger())
	defer func() {
		close(sender.block)
		rl.Stop()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := rl.Send(ctx, tgbotapi.NewMessage(1, "stuck"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSendAfterStop(t *testing.T) {
	rl := New(&fakeSender{}, Options{}, discardLogger())
	rl.Stop()

	_, err := rl.Send(context.Background(), tgbotapi.NewMessage(1, "late"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}
