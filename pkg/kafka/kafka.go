package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
	Topic string   `yaml:"topic" envconfig:"KAFKA_TOPIC" default:"reservation-events"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// EventReservation is published after every successful create or update.
type EventReservation struct {
	EventID        string    `json:"eventId"`
	Action         string    `json:"action"`
	ReservationID  int64     `json:"reservationId"`
	DocumentNumber string    `json:"documentNumber"`
	Day            string    `json:"day"`
	Guests         int       `json:"guests"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
