package service

import (
	"pinboard.app/api/internal/metrics"
	"pinboard.app/api/internal/queue"
	"pinboard.app/api/internal/store"
)

type ServicesConfig struct {
	Stores   *store.Stores
	TxRunner TxRunner
	Producer queue.Producer
	Metrics  *metrics.Metrics
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	producer queue.Producer
	metrics  *metrics.Metrics
}

func NewServices(cfg ServicesConfig) *Services {
	producer := cfg.Producer
	if producer == nil {
		producer = queue.NewNoopProducer()
	}
	return &Services{
		stores:   cfg.Stores,
		txRunner: cfg.TxRunner,
		producer: producer,
		metrics:  cfg.Metrics,
	}
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}

func (s *Services) Pins() PinService {
	return NewPinService(s.stores.Pins(), s.txRunner)
}

func (s *Services) EventRequests() EventRequestService {
	return NewEventRequestService(s.stores.EventRequests(), s.txRunner, s.producer, s.metrics)
}
