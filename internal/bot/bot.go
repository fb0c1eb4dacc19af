// ABOUTME: Telegram adapter for the query service using long polling
// ABOUTME: Each inbound message is handled in its own goroutine; failures never crash the loop
package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/harper/askdoc/internal/rag"
)

const (
	startReply = "Hi! Ask me anything about the loaded document and I'll answer from it."
	helpReply  = "Send a question as plain text. I answer using only the ingested document.\n\n/start - introduction\n/help - this message"
)

// answerer is the single entry point the transport needs from the core.
type answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Bot routes Telegram updates into the query service and sends replies back.
type Bot struct {
	api *tgbotapi.BotAPI
	svc answerer
}

// New creates a Bot on an authorized Telegram API client.
func New(api *tgbotapi.BotAPI, svc answerer) *Bot {
	return &Bot{api: api, svc: svc}
}

// Run polls for updates until the context is cancelled. In-flight handlers
// are not drained on shutdown; replies that lose the race are dropped.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Printf("bot started as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Printf("bot stopping: %v", ctx.Err())
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handle(ctx, update)
		}
	}
}

// handle processes one update. Every failure is contained here: logged,
// turned into an apology where a chat is known, and never propagated.
func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	reply, ok := b.responseFor(ctx, msg)
	if !ok {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.Printf("chat %d: sending reply: %v", msg.Chat.ID, err)
	}
}

// responseFor picks the outbound text for a message. Recognized non-question
// commands get canned replies; unknown commands get none; everything else is
// answered from the corpus.
func (b *Bot) responseFor(ctx context.Context, msg *tgbotapi.Message) (string, bool) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return startReply, true
		case "help":
			return helpReply, true
		default:
			return "", false
		}
	}

	answer, err := b.svc.Answer(ctx, msg.Text)
	if err != nil {
		log.Printf("chat %d: answering failed: %v", msg.Chat.ID, err)
		return rag.ApologyReply, true
	}
	return answer, true
}
