package store_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sync/errgroup"

	"pinboard.app/api/common/id"
	"pinboard.app/api/core/db"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/store"
)

func seedUser(ctx context.Context, uid string) {
	GinkgoHelper()
	u := &model.User{UID: uid, DisplayName: uid}
	Expect(store.NewStores(database.Querier()).Users().Upsert(ctx, u)).To(Succeed())
}

func seedPin(ctx context.Context, owner string) *model.Pin {
	GinkgoHelper()
	pin := &model.Pin{
		ID:        id.New(),
		OwnerUID:  owner,
		Latitude:  46.5,
		Longitude: 6.6,
		EventDate: time.Now().Add(24 * time.Hour).UTC(),
		Title:     "Hike",
		Category:  model.PinCategoryTrip,
	}
	Expect(store.NewStores(database.Querier()).Pins().Create(ctx, pin)).To(Succeed())
	return pin
}

func newRequest(sender, receiver string, pin *model.Pin) *model.EventRequest {
	return &model.EventRequest{
		ID:             id.New(),
		SenderUID:      sender,
		SenderUsername: sender,
		ReceiverUID:    receiver,
		PinID:          pin.ID,
		PinTitle:       pin.Title,
		CreatedAt:      time.Now().UTC(),
	}
}

var _ = Describe("UserStore", postgres, func() {
	It("upserts and keeps the profile image when omitted", func(ctx SpecContext) {
		users := store.NewStores(database.Querier()).Users()
		img := "https://img.example/alice.png"
		Expect(users.Upsert(ctx, &model.User{UID: "alice", DisplayName: "Alice", ProfileImageURL: &img})).To(Succeed())
		Expect(users.Upsert(ctx, &model.User{UID: "alice", DisplayName: "Alice B"})).To(Succeed())

		got, err := users.GetByUID(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.DisplayName).To(Equal("Alice B"))
		Expect(got.ProfileImageURL).To(HaveValue(Equal(img)))
	})

	It("creates a user on first location update", func(ctx SpecContext) {
		users := store.NewStores(database.Querier()).Users()
		got, err := users.UpdateLocation(ctx, "carol", model.Location{Latitude: 1, Longitude: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Location).To(Equal(&model.Location{Latitude: 1, Longitude: 2}))

		exists, err := users.Exists(ctx, "carol")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("returns ErrNotFound for unknown users", func(ctx SpecContext) {
		_, err := store.NewStores(database.Querier()).Users().GetByUID(ctx, "nobody")
		Expect(err).To(MatchError(store.ErrNotFound))
	})
})

var _ = Describe("PinStore", postgres, func() {
	BeforeEach(func(ctx SpecContext) {
		seedUser(ctx, "bob")
	})

	It("adds attendees with set semantics and skips the owner", func(ctx SpecContext) {
		pins := store.NewStores(database.Querier()).Pins()
		pin := seedPin(ctx, "bob")

		added, err := pins.AddAttendeeIfAbsent(ctx, pin.ID, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(added).To(BeTrue())

		added, err = pins.AddAttendeeIfAbsent(ctx, pin.ID, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(added).To(BeFalse())

		added, err = pins.AddAttendeeIfAbsent(ctx, pin.ID, "bob")
		Expect(err).NotTo(HaveOccurred())
		Expect(added).To(BeFalse())

		got, err := pins.GetByID(ctx, pin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Attendees).To(ConsistOf("alice"))
	})

	It("returns ErrNotFound when the pin is missing", func(ctx SpecContext) {
		_, err := store.NewStores(database.Querier()).Pins().AddAttendeeIfAbsent(ctx, 12345, "alice")
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("loses no update under concurrent adds", func(ctx SpecContext) {
		pin := seedPin(ctx, "bob")
		const n = 16

		var g errgroup.Group
		for i := range n {
			g.Go(func() error {
				return withTx(ctx, func(q db.Querier) error {
					_, err := store.NewStores(q).Pins().AddAttendeeIfAbsent(ctx, pin.ID, fmt.Sprintf("sender-%d", i))
					return err
				})
			})
		}
		Expect(g.Wait()).To(Succeed())

		got, err := store.NewStores(database.Querier()).Pins().GetByID(ctx, pin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Attendees).To(HaveLen(n))
	})

	It("lists pins with empty attendee slices", func(ctx SpecContext) {
		seedPin(ctx, "bob")
		pins, err := store.NewStores(database.Querier()).Pins().List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(pins).To(HaveLen(1))
		Expect(pins[0].Attendees).NotTo(BeNil())
		Expect(pins[0].Attendees).To(BeEmpty())
	})
})

var _ = Describe("EventRequestStore", postgres, func() {
	var pin *model.Pin

	BeforeEach(func(ctx SpecContext) {
		seedUser(ctx, "alice")
		seedUser(ctx, "bob")
		pin = seedPin(ctx, "bob")
	})

	It("rejects a second pending request for the same triple", func(ctx SpecContext) {
		reqs := store.NewStores(database.Querier()).EventRequests()
		Expect(reqs.Create(ctx, newRequest("alice", "bob", pin))).To(Succeed())
		Expect(reqs.Create(ctx, newRequest("alice", "bob", pin))).To(MatchError(store.ErrConflict))
	})

	It("allows a new request once the previous one is resolved", func(ctx SpecContext) {
		reqs := store.NewStores(database.Querier()).EventRequests()
		first := newRequest("alice", "bob", pin)
		Expect(reqs.Create(ctx, first)).To(Succeed())

		resolved, err := reqs.Resolve(ctx, first.ID, model.EventRequestStatusDeclined, time.Now().UTC())
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved.Status).To(Equal(model.EventRequestStatusDeclined))
		Expect(resolved.ResolvedAt).NotTo(BeNil())

		Expect(reqs.Create(ctx, newRequest("alice", "bob", pin))).To(Succeed())
	})

	It("admits exactly one of many concurrent duplicate submissions", func(ctx SpecContext) {
		const n = 8
		results := make([]error, n)

		var g errgroup.Group
		for i := range n {
			g.Go(func() error {
				results[i] = withTx(ctx, func(q db.Querier) error {
					return store.NewStores(q).EventRequests().Create(ctx, newRequest("alice", "bob", pin))
				})
				return nil
			})
		}
		Expect(g.Wait()).To(Succeed())

		var ok, conflicts int
		for _, err := range results {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			}
		}
		Expect(ok).To(Equal(1))
		Expect(conflicts).To(Equal(n - 1))
	})

	It("refuses to resolve a request twice", func(ctx SpecContext) {
		reqs := store.NewStores(database.Querier()).EventRequests()
		req := newRequest("alice", "bob", pin)
		Expect(reqs.Create(ctx, req)).To(Succeed())

		_, err := reqs.Resolve(ctx, req.ID, model.EventRequestStatusAccepted, time.Now().UTC())
		Expect(err).NotTo(HaveOccurred())
		_, err = reqs.Resolve(ctx, req.ID, model.EventRequestStatusDeclined, time.Now().UTC())
		Expect(err).To(MatchError(store.ErrConflict))
	})

	It("lists only pending requests, newest first", func(ctx SpecContext) {
		seedUser(ctx, "carol")
		reqs := store.NewStores(database.Querier()).EventRequests()

		older := newRequest("alice", "bob", pin)
		older.CreatedAt = time.Now().Add(-time.Hour).UTC()
		newer := newRequest("carol", "bob", pin)
		Expect(reqs.Create(ctx, older)).To(Succeed())
		Expect(reqs.Create(ctx, newer)).To(Succeed())

		other := seedPin(ctx, "bob")
		resolved := newRequest("alice", "bob", other)
		Expect(reqs.Create(ctx, resolved)).To(Succeed())
		_, err := reqs.Resolve(ctx, resolved.ID, model.EventRequestStatusAccepted, time.Now().UTC())
		Expect(err).NotTo(HaveOccurred())

		pending, err := reqs.ListPendingByReceiver(ctx, "bob")
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(HaveLen(2))
		Expect(pending[0].ID).To(Equal(newer.ID))
		Expect(pending[1].ID).To(Equal(older.ID))
	})

	It("locks the row for update inside a transaction", func(ctx SpecContext) {
		reqs := store.NewStores(database.Querier()).EventRequests()
		req := newRequest("alice", "bob", pin)
		Expect(reqs.Create(ctx, req)).To(Succeed())

		err := withTx(ctx, func(q db.Querier) error {
			got, err := store.NewStores(q).EventRequests().GetByIDForUpdate(ctx, req.ID)
			if err != nil {
				return err
			}
			Expect(got.IsPending()).To(BeTrue())
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = reqs.GetByIDForUpdate(ctx, 999)
		Expect(err).To(MatchError(store.ErrNotFound))
	})
})
