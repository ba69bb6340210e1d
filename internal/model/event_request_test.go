package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinboard.app/api/internal/model"
)

var _ = Describe("EventRequest", func() {
	Describe("TransitionTo", func() {
		DescribeTable("classifies every (current, decision) pair",
			func(current, decision model.EventRequestStatus, want model.Transition) {
				req := &model.EventRequest{Status: current}
				Expect(req.TransitionTo(decision)).To(Equal(want))
			},
			Entry("pending → accepted", model.EventRequestStatusPending, model.EventRequestStatusAccepted, model.TransitionApply),
			Entry("pending → declined", model.EventRequestStatusPending, model.EventRequestStatusDeclined, model.TransitionApply),
			Entry("accepted → accepted", model.EventRequestStatusAccepted, model.EventRequestStatusAccepted, model.TransitionNoop),
			Entry("declined → declined", model.EventRequestStatusDeclined, model.EventRequestStatusDeclined, model.TransitionNoop),
			Entry("accepted → declined", model.EventRequestStatusAccepted, model.EventRequestStatusDeclined, model.TransitionForbidden),
			Entry("declined → accepted", model.EventRequestStatusDeclined, model.EventRequestStatusAccepted, model.TransitionForbidden),
		)
	})

	Describe("EventRequestStatus", func() {
		It("only treats accepted and declined as decisions", func() {
			Expect(model.EventRequestStatusAccepted.IsDecision()).To(BeTrue())
			Expect(model.EventRequestStatusDeclined.IsDecision()).To(BeTrue())
			Expect(model.EventRequestStatusPending.IsDecision()).To(BeFalse())
			Expect(model.EventRequestStatus("maybe").IsDecision()).To(BeFalse())
		})

		It("reports pending on plain values", func() {
			Expect(model.EventRequest{Status: model.EventRequestStatusPending}.IsPending()).To(BeTrue())
			Expect(model.EventRequest{Status: model.EventRequestStatusDeclined}.IsPending()).To(BeFalse())
		})

		It("rejects unknown values", func() {
			Expect(model.EventRequestStatus("").IsValid()).To(BeFalse())
			Expect(model.EventRequestStatus("ACCEPTED").IsValid()).To(BeFalse())
			Expect(model.EventRequestStatusPending.IsValid()).To(BeTrue())
		})
	})
})

var _ = Describe("Pin", func() {
	It("validates categories against the fixed list", func() {
		Expect(model.PinCategoryBeach.IsValid()).To(BeTrue())
		Expect(model.PinCategory("concert").IsValid()).To(BeFalse())
	})

	It("reports attendee membership", func() {
		pin := &model.Pin{OwnerUID: "bob", Attendees: []string{"alice"}}
		Expect(pin.HasAttendee("alice")).To(BeTrue())
		Expect(pin.HasAttendee("bob")).To(BeFalse())
	})

	It("reports attendee membership on plain values", func() {
		pins := map[int64]model.Pin{1: {Attendees: []string{"alice"}}}
		Expect(pins[1].HasAttendee("alice")).To(BeTrue())
		Expect(model.Pin{}.HasAttendee("alice")).To(BeFalse())
	})
})
