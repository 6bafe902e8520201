// Package events publishes plan change notifications over AMQP so other
// subsystems (projection, UI refresh) can react to writes without polling
// the spreadsheet.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewPublisher(url, exchangeName, queueName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(p.exchangeName, "direct", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	_, err = p.channel.QueueDeclare(p.queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// Routing key matches the queue name on a direct exchange.
	err = p.channel.QueueBind(p.queueName, p.queueName, p.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PlanSaved publishes a notification that a full plan save completed.
func (p *Publisher) PlanSaved(ctx context.Context, meta core.HorizonMetadata, recordCount int) error {
	msg := NewPlanSavedMessage(meta, recordCount)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published plan-saved event",
		"message_id", msg.MessageID,
		"records", recordCount,
		"exchange", p.exchangeName)
	return nil
}

// HorizonChanged publishes a notification that the horizon was resized.
func (p *Publisher) HorizonChanged(ctx context.Context, meta core.HorizonMetadata) error {
	msg := NewHorizonChangedMessage(meta)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.publish(ctx, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published horizon-changed event",
		"message_id", msg.MessageID,
		"start", msg.Start,
		"month_count", msg.MonthCount,
		"exchange", p.exchangeName)
	return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		p.queueName,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
