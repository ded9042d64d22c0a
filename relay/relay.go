// server/relay/relay.go

// Package relay fans hub broadcasts out across server instances over a
// Redis pub/sub channel.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vinizap/shelf/server/ws"
)

const (
	reconnectDelay = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// Hub is the part of ws.Hub the relay feeds.
type Hub interface {
	Origin() string
	BroadcastLocal(msg ws.Message)
}

type Relay struct {
	client  *redis.Client
	channel string
	hub     Hub
	ready   chan struct{}
	log     zerolog.Logger
}

func New(client *redis.Client, channel string, hub Hub, log zerolog.Logger) *Relay {
	return &Relay{
		client:  client,
		channel: channel,
		hub:     hub,
		ready:   make(chan struct{}),
		log:     log.With().Str("component", "relay").Str("channel", channel).Logger(),
	}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Forward publishes a locally produced message for the other instances.
func (r *Relay) Forward(msg ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("type", string(msg.Type)).Msg("encode relay message")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		r.log.Error().Err(err).Str("type", string(msg.Type)).Msg("publish relay message")
	}
}

// Ready is closed once the first subscription is confirmed.
func (r *Relay) Ready() <-chan struct{} {
	return r.ready
}

// Run subscribes until ctx ends, resubscribing after connection loss.
func (r *Relay) Run(ctx context.Context) error {
	first := true
	for {
		err := r.subscribe(ctx, func() {
			if first {
				first = false
				close(r.ready)
			}
		})
		if ctx.Err() != nil {
			return nil
		}
		r.log.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("relay subscription lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (r *Relay) subscribe(ctx context.Context, onReady func()) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	onReady()
	r.log.Info().Msg("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", r.channel)
			}
			r.deliver(raw.Payload)
		}
	}
}

func (r *Relay) deliver(payload string) {
	var msg ws.Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.log.Warn().Err(err).Msg("relay message parse error")
		return
	}

	// Skip messages that originated from this instance.
	if msg.Origin == r.hub.Origin() {
		return
	}
	r.hub.BroadcastLocal(msg)
}
