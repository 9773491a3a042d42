package worker

import (
	"cctareport.com/engine/rmq"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type rmqTransactions interface {
	notifyCompletion(task *Task, message Message) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, cctaLogger *zerolog.Logger)
	getDeliveriesCh() <-chan amqp.Delivery
	getReqChanErrorsCh() <-chan *amqp.Error
	getRespChanErrorsCh() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) getReqChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.ReqChanErrors
}

func (wrapper *rmqClientWrapper) getRespChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.RespChanErrors
}

func (wrapper *rmqClientWrapper) notifyCompletion(task *Task, message Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	contentType := task.delivery.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return wrapper.rmqClient.SendCompletion(
		amqp.Publishing{
			ContentType:   contentType,
			CorrelationId: task.delivery.CorrelationId,
			Body:          b,
		},
	)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// rejectDelivery requeues a first failure and drops a redelivered message.
func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, cctaLogger *zerolog.Logger) {
	if delivery.Redelivered {
		cctaLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
		err := delivery.Reject(false)
		if err != nil {
			cctaLogger.Err(err).Msg("Failed to reject delivery")
		}
		return
	}
	cctaLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	err := delivery.Reject(true)
	if err != nil {
		cctaLogger.Err(err).Msg("Failed to requeue delivery")
	}
}
