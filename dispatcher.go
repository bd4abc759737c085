package telegrask

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type queuedUpdate struct {
	ctx context.Context
	upd *models.Update
}

// dispatcher fans updates out to a fixed worker pool. Updates from the same
// chat always land on the same worker, preserving per-chat ordering.
type dispatcher struct {
	api     *bot.Bot
	handler HandlerFunc
	queues  []chan queuedUpdate
}

func newDispatcher(api *bot.Bot, workers int, h HandlerFunc) *dispatcher {
	d := &dispatcher{api: api, handler: h, queues: make([]chan queuedUpdate, workers)}
	for i := range d.queues {
		d.queues[i] = make(chan queuedUpdate, 100)
		go d.worker(d.queues[i])
	}
	return d
}

func (d *dispatcher) dispatch(ctx context.Context, upd *models.Update) {
	// Unsigned modulo: chat IDs can be negative (groups) or extreme.
	idx := int(uint64(orderingKey(upd)) % uint64(len(d.queues)))
	d.queues[idx] <- queuedUpdate{ctx: ctx, upd: upd}
}

func (d *dispatcher) worker(in <-chan queuedUpdate) {
	for item := range in {
		d.handler(item.ctx, d.api, item.upd)
	}
}

// orderingKey picks the chat (or inline sender) whose updates must stay
// ordered.
func orderingKey(u *models.Update) int64 {
	if u.Message != nil {
		return u.Message.Chat.ID
	}
	if u.InlineQuery != nil {
		return u.InlineQuery.From.ID
	}
	return 0
}
