// Package chat contains the automated support responder. Customer messages
// flow through the message queue, so reply durability and multi-instance
// behavior are deployment choices rather than side effects of process memory.
package chat

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/log"
	"github.com/domainmart/api/internal/metrics"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
)

const defaultReply = "Thanks for reaching out! A member of our team will be with you shortly."

type Responder struct {
	Store repo.ChatStore
	Delay time.Duration
	Reply string
}

func NewResponder(store repo.ChatStore, delay time.Duration) *Responder {
	return &Responder{Store: store, Delay: delay, Reply: defaultReply}
}

// Handle consumes one chat.message.created event and appends the canned
// support reply after the configured delay. Support-authored events are
// acked without a reply so the responder never answers itself.
func (r *Responder) Handle(body []byte) error {
	var ev queue.ChatMessageCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		log.L().Warn("chat responder: bad event payload", zap.Error(err))
		return nil // malformed events are dropped, not requeued
	}
	if ev.Sender != domain.SenderUser {
		return nil
	}
	sid, err := primitive.ObjectIDFromHex(ev.SessionID)
	if err != nil {
		log.L().Warn("chat responder: bad session id", zap.String("session_id", ev.SessionID))
		return nil
	}

	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := &domain.ChatMessage{
		SessionID: sid,
		Sender:    domain.SenderSupport,
		Body:      r.Reply,
	}
	if err := r.Store.AddChatMessage(ctx, msg); err != nil {
		log.L().Error("chat responder: save reply", zap.Error(err))
		return err // requeue, the store may be back shortly
	}
	metrics.ChatRepliesTotal.Inc()
	return nil
}
