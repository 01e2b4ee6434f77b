package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/awnkhoury1/awnzzbot/internal/commands"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

// dispatcher fans updates out to a bounded worker pool so one user's
// slow fetch never blocks another user's command.
type dispatcher struct {
	handler *commands.Handler
	workers int
	logger  *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newDispatcher(handler *commands.Handler, workers int, log *logger.Logger) *dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcher{
		handler: handler,
		workers: workers,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker pool over the update channel
func (d *dispatcher) Start(updates tgbotapi.UpdatesChannel) {
	d.logger.WithField("workers", d.workers).Info("Starting update dispatcher")
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i, updates)
	}
}

// Stop cancels in-flight handler contexts and waits for the workers to
// drain.
func (d *dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
	d.logger.Info("Update dispatcher stopped")
}

func (d *dispatcher) worker(id int, updates tgbotapi.UpdatesChannel) {
	defer d.wg.Done()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				d.logger.WithField("worker_id", id).Debug("Worker stopping - update channel closed")
				return
			}
			if msg, ok := toMessage(update); ok {
				d.handler.HandleMessage(d.ctx, msg)
			}
		case <-d.ctx.Done():
			d.logger.WithField("worker_id", id).Debug("Worker stopping - context cancelled")
			return
		}
	}
}

// toMessage converts a Telegram update into the router's message form.
// Non-message updates (edits, channel posts, callbacks) are skipped.
func toMessage(update tgbotapi.Update) (commands.Message, bool) {
	m := update.Message
	if m == nil || m.From == nil {
		return commands.Message{}, false
	}

	msg := commands.Message{
		ChatID:  m.Chat.ID,
		OwnerID: m.From.ID,
		Text:    m.Text,
	}

	if m.IsCommand() {
		msg.Command = m.Command()
		msg.Args = strings.Fields(m.CommandArguments())
		msg.Text = ""
	}

	return msg, true
}
