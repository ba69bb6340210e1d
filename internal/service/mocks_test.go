package service_test

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/queue"
	"pinboard.app/api/internal/service"
	"pinboard.app/api/internal/store"
)

// memDB is an in-memory backing store. memTxRunner holds mu for the whole
// transaction and restores a snapshot when fn fails, so transactions are
// serialized and all-or-nothing.
type memDB struct {
	mu       sync.Mutex
	users    map[string]model.User
	pins     map[int64]model.Pin
	requests map[int64]model.EventRequest

	addAttendeeErr error
	listPendingErr error
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]model.User{},
		pins:     map[int64]model.Pin{},
		requests: map[int64]model.EventRequest{},
	}
}

func (d *memDB) addUser(uid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[uid] = model.User{UID: uid, DisplayName: uid}
}

func (d *memDB) addPin(pin model.Pin) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pin.Attendees == nil {
		pin.Attendees = []string{}
	}
	d.pins[pin.ID] = pin
}

func (d *memDB) deletePin(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pins, id)
}

func (d *memDB) pin(id int64) model.Pin {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.pins[id]
	p.Attendees = slices.Clone(p.Attendees)
	return p
}

func (d *memDB) request(id int64) model.EventRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[id]
}

func (d *memDB) requestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

type memSnapshot struct {
	users    map[string]model.User
	pins     map[int64]model.Pin
	requests map[int64]model.EventRequest
}

func (d *memDB) snapshot() memSnapshot {
	pins := make(map[int64]model.Pin, len(d.pins))
	for id, p := range d.pins {
		p.Attendees = slices.Clone(p.Attendees)
		pins[id] = p
	}
	return memSnapshot{
		users:    maps.Clone(d.users),
		pins:     pins,
		requests: maps.Clone(d.requests),
	}
}

func (d *memDB) restore(s memSnapshot) {
	d.users, d.pins, d.requests = s.users, s.pins, s.requests
}

type memTxRunner struct {
	db *memDB
}

func (r *memTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	snap := r.db.snapshot()
	if err := fn(memProvider{db: r.db}); err != nil {
		r.db.restore(snap)
		return err
	}
	return nil
}

type memProvider struct {
	db *memDB
}

func (p memProvider) Users() store.UserStore                 { return &memUserStore{db: p.db} }
func (p memProvider) Pins() store.PinStore                   { return &memPinStore{db: p.db} }
func (p memProvider) EventRequests() store.EventRequestStore { return &memRequestStore{db: p.db} }

// guard locks the db for stores used outside a transaction.
func guard(db *memDB, locked bool) func() {
	if !locked {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

type memUserStore struct {
	db     *memDB
	locked bool
}

func (s *memUserStore) GetByUID(_ context.Context, uid string) (*model.User, error) {
	defer guard(s.db, s.locked)()
	u, ok := s.db.users[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) Exists(_ context.Context, uid string) (bool, error) {
	defer guard(s.db, s.locked)()
	_, ok := s.db.users[uid]
	return ok, nil
}

func (s *memUserStore) Upsert(_ context.Context, user *model.User) error {
	defer guard(s.db, s.locked)()
	s.db.users[user.UID] = *user
	return nil
}

func (s *memUserStore) UpdateLocation(_ context.Context, uid string, loc model.Location) (*model.User, error) {
	defer guard(s.db, s.locked)()
	u := s.db.users[uid]
	u.UID = uid
	u.Location = &loc
	s.db.users[uid] = u
	return &u, nil
}

type memPinStore struct {
	db     *memDB
	locked bool
}

func (s *memPinStore) Create(_ context.Context, pin *model.Pin) error {
	defer guard(s.db, s.locked)()
	pin.Attendees = []string{}
	pin.CreatedAt = time.Now().UTC()
	s.db.pins[pin.ID] = *pin
	return nil
}

func (s *memPinStore) GetByID(_ context.Context, id int64) (*model.Pin, error) {
	defer guard(s.db, s.locked)()
	p, ok := s.db.pins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Attendees = slices.Clone(p.Attendees)
	return &p, nil
}

func (s *memPinStore) List(_ context.Context) ([]model.Pin, error) {
	defer guard(s.db, s.locked)()
	pins := []model.Pin{}
	for _, p := range s.db.pins {
		p.Attendees = slices.Clone(p.Attendees)
		pins = append(pins, p)
	}
	slices.SortFunc(pins, func(a, b model.Pin) int { return a.EventDate.Compare(b.EventDate) })
	return pins, nil
}

func (s *memPinStore) AddAttendeeIfAbsent(_ context.Context, pinID int64, uid string) (bool, error) {
	defer guard(s.db, s.locked)()
	if s.db.addAttendeeErr != nil {
		return false, s.db.addAttendeeErr
	}
	p, ok := s.db.pins[pinID]
	if !ok {
		return false, store.ErrNotFound
	}
	if p.OwnerUID == uid || p.HasAttendee(uid) {
		return false, nil
	}
	p.Attendees = append(slices.Clone(p.Attendees), uid)
	s.db.pins[pinID] = p
	return true, nil
}

type memRequestStore struct {
	db     *memDB
	locked bool
}

func (s *memRequestStore) Create(_ context.Context, req *model.EventRequest) error {
	defer guard(s.db, s.locked)()
	for _, r := range s.db.requests {
		if r.IsPending() && r.SenderUID == req.SenderUID && r.ReceiverUID == req.ReceiverUID && r.PinID == req.PinID {
			return store.ErrConflict
		}
	}
	req.Status = model.EventRequestStatusPending
	s.db.requests[req.ID] = *req
	return nil
}

func (s *memRequestStore) GetByIDForUpdate(_ context.Context, id int64) (*model.EventRequest, error) {
	defer guard(s.db, s.locked)()
	r, ok := s.db.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *memRequestStore) Resolve(_ context.Context, id int64, status model.EventRequestStatus, resolvedAt time.Time) (*model.EventRequest, error) {
	defer guard(s.db, s.locked)()
	r, ok := s.db.requests[id]
	if !ok || !r.IsPending() {
		return nil, store.ErrConflict
	}
	r.Status = status
	r.ResolvedAt = &resolvedAt
	s.db.requests[id] = r
	return &r, nil
}

func (s *memRequestStore) ListPendingByReceiver(_ context.Context, receiverUID string) ([]model.EventRequest, error) {
	defer guard(s.db, s.locked)()
	if s.db.listPendingErr != nil {
		return nil, s.db.listPendingErr
	}
	reqs := []model.EventRequest{}
	for _, r := range s.db.requests {
		if r.ReceiverUID == receiverUID && r.IsPending() {
			reqs = append(reqs, r)
		}
	}
	slices.SortFunc(reqs, func(a, b model.EventRequest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return reqs, nil
}

type mockProducer struct {
	mu        sync.Mutex
	publishFn func(ctx context.Context, evt queue.RequestEvent) error
	events    []queue.RequestEvent
}

func (m *mockProducer) Publish(ctx context.Context, evt queue.RequestEvent) error {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, evt)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) published() []queue.RequestEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

type mockUserStore struct {
	getByUIDFn       func(ctx context.Context, uid string) (*model.User, error)
	existsFn         func(ctx context.Context, uid string) (bool, error)
	upsertFn         func(ctx context.Context, user *model.User) error
	updateLocationFn func(ctx context.Context, uid string, loc model.Location) (*model.User, error)
}

func (m *mockUserStore) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	if m.getByUIDFn != nil {
		return m.getByUIDFn(ctx, uid)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Exists(ctx context.Context, uid string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, uid)
	}
	return false, nil
}

func (m *mockUserStore) Upsert(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpdateLocation(ctx context.Context, uid string, loc model.Location) (*model.User, error) {
	if m.updateLocationFn != nil {
		return m.updateLocationFn(ctx, uid, loc)
	}
	return &model.User{UID: uid, Location: &loc}, nil
}
