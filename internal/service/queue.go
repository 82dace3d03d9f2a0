package service

import (
	"encoding/json"

	"github.com/IBM/sarama"
)

//go:generate go run github.com/golang/mock/mockgen -source=queue.go -destination=mocks/queue.go -package=mocks

// Enqueuer publishes reservation events. Publishing is fire-and-forget from
// the caller's point of view: a failed publish never fails the request.
type Enqueuer interface {
	Enqueue(v any) error
}

func NewEnqueuer(producer sarama.SyncProducer, topic string) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
		topic:    topic,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func (q *enqueuerImpl) Enqueue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: q.topic, Value: sarama.StringEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}
