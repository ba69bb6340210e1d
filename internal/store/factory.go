package store

import (
	"pinboard.app/api/core/db"
)

// Stores hands out stores bound to one Querier: the pool, or a transaction.
type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.q)
}

func (s *Stores) Pins() PinStore {
	return newPinStore(s.q)
}

func (s *Stores) EventRequests() EventRequestStore {
	return newEventRequestStore(s.q)
}
