package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/camperrent/camperd/internal/models"
	"github.com/camperrent/camperd/internal/telemetry"
	"github.com/camperrent/camperd/internal/telemetry/metrics"
	"github.com/camperrent/camperd/internal/thumbs"
)

// Holds the config params for the consumer
type AMQPConfig struct {
	AMQPUri  string
	Exchange string

	PrewarmQueueName string
}

// AMQPConsumer feeds queued prewarm requests through the same thumbnail
// pipeline the HTTP handler uses, so the cache is warm before the first
// client asks.
type AMQPConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	config    AMQPConfig
	thumbSvc  *thumbs.Service
	telemetry *telemetry.TelemetrySvc
}

// Creates a new AMQPConsumer instance ready to connect to broker
func NewAMQPConsumer(
	config AMQPConfig,
	thumbSvc *thumbs.Service,
	telemetry *telemetry.TelemetrySvc,
) (*AMQPConsumer, error) {

	if config.AMQPUri == "" {
		return nil, fmt.Errorf("AMQP URI cannot be empty in config")
	}
	if config.Exchange == "" {
		return nil, fmt.Errorf("AMQP exchange cannot be empty in config")
	}
	if config.PrewarmQueueName == "" {
		return nil, fmt.Errorf(
			"AMQP prewarm queue name cannot be empty in config",
		)
	}

	return &AMQPConsumer{
		config:    config,
		thumbSvc:  thumbSvc,
		telemetry: telemetry,
	}, nil
}

// Connects to AMQP broker, declares exchange and queue and
// starts consuming messages
func (c *AMQPConsumer) Start(ctx context.Context) error {
	slog.Debug("AMQP - Initializing AMQP Consumer")

	var err error
	c.conn, err = amqp.Dial(c.config.AMQPUri)
	if err != nil {
		return fmt.Errorf("AMQP - Connection to broker failed: %w", err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("AMQP - Failed to open channel: %w", err)
	}

	err = c.channel.ExchangeDeclare(
		c.config.Exchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("AMQP - Failed to declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.config.PrewarmQueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("AMQP - Failed to declare prewarm queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.config.PrewarmQueueName, // Queue
		c.config.PrewarmQueueName, // Routing key
		c.config.Exchange,         // Exchange
		false,                     // No-wait
		nil,                       // Arguments
	)
	if err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("AMQP - Failed to bind prewarm queue: %w", err)
	}

	go c.consumePrewarmRequests(ctx)
	return nil
}

// Gracefully stops the AMQP consumer
func (c *AMQPConsumer) Stop() {
	slog.Info("AMQP - Stopping AMQP Consumer...")

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			slog.Error("AMQP - Failed to close channel", "error", err)
		} else {
			slog.Debug("AMQP - Channel closed")
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			slog.Error("AMQP - Failed to close connection", "error", err)
		} else {
			slog.Debug("AMQP - Connection closed")
		}
	}

	slog.Info("AMQP - AMQP Consumer stopped")
}

func (c *AMQPConsumer) consumePrewarmRequests(ctx context.Context) {
	msgs, err := c.channel.Consume(
		c.config.PrewarmQueueName,
		"camperd-prewarm", // Consumer tag
		false,             // Auto-acknowledge
		false,             // Exclusive
		false,             // No-local
		false,             // No-wait
		nil,               // Arguments
	)
	if err != nil {
		slog.Error(
			"AMQP - Failed to create prewarm queue consumer",
			"error",
			err,
		)
		return
	}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				slog.Info(
					"AMQP - Prewarm message channel closed. goroutine exiting",
				)
				return
			}

			var prewarmRequest models.PrewarmRequest
			err := json.Unmarshal(msg.Body, &prewarmRequest)
			if err != nil {
				slog.Error(
					"AMQP - Failed to unmarshal prewarm message",
					"error",
					err,
					"message",
					string(msg.Body),
				)

				if nackErr := msg.Nack(false, false); nackErr != nil {
					slog.Error(
						"AMQP - Failed to nack prewarm message",
						"error",
						nackErr,
					)
				}
				continue
			}

			c.telemetry.Metrics().Increment(
				metrics.PrewarmRequestReceived,
				nil,
			)

			err = c.processPrewarmRequest(ctx, prewarmRequest)
			if err != nil {
				slog.Error(
					"AMQP - Failed to process prewarm request",
					"error",
					err,
					"url",
					prewarmRequest.URL,
				)

				if nackErr := msg.Nack(false, false); nackErr != nil {
					slog.Error(
						"AMQP - Failed to nack prewarm message",
						"error",
						nackErr,
					)
				}
				continue
			}

			// Acknowledge the message
			if err := msg.Ack(false); err != nil {
				slog.Error(
					"AMQP - Failed to acknowledge prewarm message",
					"error",
					err,
				)
			}

		case <-ctx.Done():
			slog.Info(
				"AMQP - Context done signal received, " +
					"stopping prewarm consumption goroutine...",
			)
			return
		}
	}
}

// processPrewarmRequest validates the queued request with the same rules
// as the HTTP surface and runs it through the shared pipeline. A request
// for an already cached pair is a cheap no-op.
func (c *AMQPConsumer) processPrewarmRequest(
	ctx context.Context,
	prewarmRequest models.PrewarmRequest,
) error {
	rawWidth := ""
	if prewarmRequest.Width != 0 {
		rawWidth = strconv.Itoa(prewarmRequest.Width)
	}

	req, err := thumbs.ParseRequest(prewarmRequest.URL, rawWidth)
	if err != nil {
		return fmt.Errorf(
			"invalid prewarm request %s: %w",
			prewarmRequest.PrewarmRequestId,
			err,
		)
	}

	if _, err := c.thumbSvc.Thumbnail(ctx, req); err != nil {
		return err
	}

	slog.Debug(
		"Prewarm request completed",
		"prewarmRequestId", prewarmRequest.PrewarmRequestId,
		"url", req.URL,
		"width", req.Width,
	)
	return nil
}
