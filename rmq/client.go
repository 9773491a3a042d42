package rmq

import (
	"cctareport.com/engine/logger"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type Config struct {
	Host                    string `envconfig:"CCTA_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"CCTA_RMQ_PORT" required:"true"`
	Username                string `envconfig:"CCTA_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"CCTA_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"CCTA_RMQ_DEFAULT_EXCHANGE" default:"ccta-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"CCTA_MQ_MAX_PARALLEL_REQUESTS" default:"5"`
	ReportTaskQueue         string `envconfig:"CCTA_REPORT_TASK_QUEUE" default:"ccta-report-tasks"`
	CompletionQueue         string `envconfig:"CCTA_REPORT_COMPLETION_QUEUE" default:"ccta-report-completed"`
}

type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	cctaLogger     *zerolog.Logger
}

func NewClient() (*Client, error) {
	cctaLogger := logger.NewLogger("RMQ client")
	var err error
	var config Config
	if err = envconfig.Process("", &config); err != nil {
		cctaLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := getURL(config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	for _, queue := range []string{config.ReportTaskQueue, config.CompletionQueue} {
		if err := declare(reqChannel, config.Exchange, queue); err != nil {
			return nil, fmt.Errorf("declare %s: %w", queue, err)
		}
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}

	deliveries, err := reqChannel.Consume(
		config.ReportTaskQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	reqChanErrors := reqChannel.NotifyClose(make(chan *amqp.Error))
	respChanErrors := respChannel.NotifyClose(make(chan *amqp.Error))

	cctaLogger.Info().
		Str("task_queue", config.ReportTaskQueue).
		Str("completion_queue", config.CompletionQueue).
		Msg("Consuming report tasks")
	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChanErrors,
		RespChanErrors: respChanErrors,
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		cctaLogger:     &cctaLogger,
	}, nil
}

// SendCompletion publishes msg to the completion queue.
func (c *Client) SendCompletion(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.CompletionQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func getURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

// declare makes sure queue exists and is routed from exchange by its own name.
func declare(ch *amqp.Channel, exchange string, queue string) error {
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return err
	}
	if exchange == "" {
		return nil
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(queue, queue, exchange, false, nil)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
