package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/config"
)

const (
	// EventsExchange carries resource.<name>.<action> events.
	EventsExchange = "restaurant_topic"
	HistoryQueue   = "history.q"
	DeadLetters    = "restaurant_dlx"
	DeadQueue      = "restaurant.dlq"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation // для publisher confirms
	mu   sync.Mutex               // сериализуем Publish при использовании confirms
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// URL builds the amqp:// address of cfg; the vhost is path-escaped so the
// default "/" becomes %2F.
func URL(cfg config.RabbitMQConfig, useTLS bool) string {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	scheme := "amqp"
	if useTLS {
		scheme = "amqps"
	}
	u := url.URL{
		Scheme:  scheme,
		User:    url.UserPassword(cfg.User, cfg.Password),
		Host:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:    "/" + vhost,
		RawPath: "/" + url.PathEscape(vhost),
	}
	return u.String()
}

// Connect dials with TLS when cfg.UseTLS is set. Errors name the address
// without credentials.
func Connect(cfg config.RabbitMQConfig) (*Client, error) {
	dial, scheme := Dial, "amqp"
	if cfg.UseTLS {
		dial, scheme = DialTLS, "amqps"
	}
	c, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s://%s:%d: %w", scheme, cfg.Host, cfg.Port, err)
	}
	return c, nil
}

func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg, false))
	if err != nil {
		return nil, err
	}
	return open(conn)
}

func DialTLS(cfg config.RabbitMQConfig) (*Client, error) {
	conn, err := amqp.DialTLS(URL(cfg, true), &tls.Config{MinVersion: tls.VersionTLS12})
	if err != nil {
		return nil, err
	}
	return open(conn)
}

func open(conn *amqp.Connection) (*Client, error) {
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Включаем publisher confirms и подписываемся на подтверждения
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

// Лёгкая health-проверка соединения
func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareTopology declares the events exchange, the history queue bound to
// every resource event, and the dead-letter pair it rejects into.
func (c *Client) DeclareTopology() error {
	if c == nil || c.ch == nil {
		return errors.New("nil channel")
	}
	if err := c.ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(DeadLetters, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(HistoryQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetters,
		"x-dead-letter-routing-key": "dlq",
	}); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(DeadQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(HistoryQueue, "resource.*.*", EventsExchange, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(DeadQueue, "dlq", DeadLetters, false, nil)
}

// Publish публикует сообщение и ждёт ack/nack от брокера.
// Не вызывает горутинно одновременно (сериализуется mutex-ом).
func (c *Client) Publish(ctx context.Context, exchange, key string,
	body []byte, headers amqp.Table, contentType string, persistent bool) error {

	c.mu.Lock()
	defer c.mu.Unlock()

	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}

	if err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: mode,
			ContentType:  contentType,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Headers:      headers,
			Body:         body,
		},
	); err != nil {
		return err
	}

	// ждём publisher confirm или отмену контекста
	select {
	case conf, ok := <-c.acks:
		if !ok {
			return errors.New("channel closed before confirm")
		}
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}

// Subscribe binds a private auto-delete queue to pattern on the events
// exchange. Deliveries are auto-acked and vanish when the client closes.
func (c *Client) Subscribe(pattern, consumer string) (<-chan amqp.Delivery, error) {
	if c == nil || c.ch == nil {
		return nil, errors.New("nil channel")
	}
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	if err := c.ch.QueueBind(q.Name, pattern, EventsExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", pattern, err)
	}
	return c.ch.Consume(q.Name, consumer, true, true, false, false, nil)
}
