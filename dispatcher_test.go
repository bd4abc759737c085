package telegrask

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestDispatcherPreservesChatOrder(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int64][]string)
	var wg sync.WaitGroup

	d := newDispatcher(nil, 4, func(ctx context.Context, _ *bot.Bot, upd *models.Update) {
		defer wg.Done()
		mu.Lock()
		seen[upd.Message.Chat.ID] = append(seen[upd.Message.Chat.ID], upd.Message.Text)
		mu.Unlock()
	})

	texts := []string{"a", "b", "c", "d", "e"}
	chats := []int64{1, 2, 3}
	for _, text := range texts {
		for _, chat := range chats {
			wg.Add(1)
			d.dispatch(context.Background(), textUpdate(chat, text))
		}
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not drain")
	}

	for _, chat := range chats {
		assert.Equal(t, texts, seen[chat], "chat %d out of order", chat)
	}
}

func TestDispatchExtremeChatIDs(t *testing.T) {
	var wg sync.WaitGroup
	d := newDispatcher(nil, 4, func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		wg.Done()
	})

	for _, id := range []int64{math.MinInt64, math.MaxInt64, -1001234567890, 0} {
		wg.Add(1)
		d.dispatch(context.Background(), textUpdate(id, "x"))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not drain")
	}
}

func TestOrderingKey(t *testing.T) {
	assert.Equal(t, int64(42), orderingKey(textUpdate(42, "x")))
	assert.Equal(t, int64(7), orderingKey(inlineUpdate(7, "q")))
	assert.Equal(t, int64(0), orderingKey(&models.Update{}))
}
