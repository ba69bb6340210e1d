package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"pinboard.app/api/common/id"
	"pinboard.app/api/common/logger"
	"pinboard.app/api/internal/metrics"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/queue"
	"pinboard.app/api/internal/store"
)

const (
	ledgerComponent = "pinboard.service.ledger"
	publishTimeout  = 2 * time.Second
)

type SubmitParams struct {
	SenderUID      string
	SenderUsername string
	ReceiverUID    string
	PinID          int64
	PinTitle       string
}

func (p SubmitParams) validate() error {
	switch {
	case strings.TrimSpace(p.SenderUID) == "":
		return required("sender_uid")
	case strings.TrimSpace(p.SenderUsername) == "":
		return required("sender_username")
	case strings.TrimSpace(p.ReceiverUID) == "":
		return required("receiver_uid")
	case p.PinID <= 0:
		return required("event_id")
	case strings.TrimSpace(p.PinTitle) == "":
		return required("event_title")
	}
	return nil
}

// EventRequestService is the request ledger: it owns the pending → accepted|declined
// lifecycle and the accept side effect on the pin's attendee set.
type EventRequestService interface {
	Submit(ctx context.Context, params SubmitParams) (*model.EventRequest, error)
	ListPending(ctx context.Context, receiverUID string) ([]model.EventRequest, error)
	Resolve(ctx context.Context, requestID int64, decision model.EventRequestStatus) (*model.EventRequest, error)
}

type eventRequestService struct {
	reqStore store.EventRequestStore
	txRunner TxRunner
	producer queue.Producer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewEventRequestService(reqStore store.EventRequestStore, txRunner TxRunner, producer queue.Producer, m *metrics.Metrics) EventRequestService {
	if producer == nil {
		producer = queue.NewNoopProducer()
	}
	return &eventRequestService{
		reqStore: reqStore,
		txRunner: txRunner,
		producer: producer,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *eventRequestService) Submit(ctx context.Context, params SubmitParams) (*model.EventRequest, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UID:       logger.Ptr(params.SenderUID),
		PinID:     logger.Ptr(params.PinID),
		Component: ledgerComponent,
	})
	sc := logger.StartSpan(ctx, "ledger.submit")
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(
		attribute.String("ledger.sender_uid", params.SenderUID),
		attribute.String("ledger.receiver_uid", params.ReceiverUID),
		attribute.Int64("ledger.pin_id", params.PinID),
	)

	var req *model.EventRequest
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		for _, uid := range []string{params.SenderUID, params.ReceiverUID} {
			exists, err := stores.Users().Exists(ctx, uid)
			if err != nil {
				return fmt.Errorf("checking user %s: %w", uid, err)
			}
			if !exists {
				return ErrUserNotFound
			}
		}

		pin, err := stores.Pins().GetByID(ctx, params.PinID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPinNotFound
			}
			return fmt.Errorf("getting pin: %w", err)
		}
		if pin.OwnerUID != params.ReceiverUID {
			return invalid("receiver_uid", "must be the pin owner")
		}
		if pin.OwnerUID == params.SenderUID {
			return invalid("sender_uid", "cannot request to join your own pin")
		}

		req = &model.EventRequest{
			ID:             id.New(),
			SenderUID:      params.SenderUID,
			SenderUsername: params.SenderUsername,
			ReceiverUID:    params.ReceiverUID,
			PinID:          params.PinID,
			PinTitle:       params.PinTitle,
			Status:         model.EventRequestStatusPending,
			CreatedAt:      s.now(),
		}
		if err := stores.EventRequests().Create(ctx, req); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrDuplicateRequest
			}
			return fmt.Errorf("creating event request: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			s.metrics.DuplicateRejected()
		}
		return nil, s.fail(ctx, sc, "submit", err)
	}

	s.metrics.RequestSubmitted()
	slog.InfoContext(ctx, "event request submitted",
		"event_request_id", req.ID,
		"receiver_uid", req.ReceiverUID,
	)
	s.publish(ctx, queue.NewRequestEvent(queue.EventTypeRequestSubmitted, req, req.CreatedAt))

	return req, nil
}

func (s *eventRequestService) ListPending(ctx context.Context, receiverUID string) ([]model.EventRequest, error) {
	if strings.TrimSpace(receiverUID) == "" {
		return nil, required("receiver_uid")
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UID:       logger.Ptr(receiverUID),
		Component: ledgerComponent,
	})

	reqs, err := s.reqStore.ListPendingByReceiver(ctx, receiverUID)
	if err != nil {
		slog.ErrorContext(ctx, "listing pending event requests failed", "error", err)
		return nil, fmt.Errorf("listing pending event requests: %w", err)
	}
	return reqs, nil
}

// Resolve applies decision to a pending request. Re-resolving to the same decision
// returns the stored request unchanged; the opposite decision is ErrInvalidTransition.
// On accept, the status change and the attendee insert commit together. A missing pin
// does not block the status change; it is logged for reconciliation instead.
func (s *eventRequestService) Resolve(ctx context.Context, requestID int64, decision model.EventRequestStatus) (*model.EventRequest, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidStatus
	}
	if requestID <= 0 {
		return nil, required("requestId")
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventRequestID: logger.Ptr(requestID),
		Component:      ledgerComponent,
	})
	sc := logger.StartSpan(ctx, "ledger.resolve")
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(
		attribute.Int64("ledger.request_id", requestID),
		attribute.String("ledger.decision", string(decision)),
	)

	var (
		result     *model.EventRequest
		applied    bool
		added      bool
		pinMissing bool
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		// Reset in case the runner retries fn.
		applied, added, pinMissing = false, false, false

		current, err := stores.EventRequests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("locking event request: %w", err)
		}

		switch current.TransitionTo(decision) {
		case model.TransitionNoop:
			result = current
			return nil
		case model.TransitionForbidden:
			return ErrInvalidTransition
		}

		updated, err := stores.EventRequests().Resolve(ctx, requestID, decision, s.now())
		if err != nil {
			return fmt.Errorf("updating event request status: %w", err)
		}
		applied = true

		if decision == model.EventRequestStatusAccepted {
			added, err = stores.Pins().AddAttendeeIfAbsent(ctx, updated.PinID, updated.SenderUID)
			if errors.Is(err, store.ErrNotFound) {
				pinMissing = true
			} else if err != nil {
				return fmt.Errorf("adding attendee: %w", err)
			}
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, sc, "resolve", err)
	}

	s.metrics.RequestResolved(decision, applied)
	if !applied {
		slog.DebugContext(ctx, "event request already resolved with this decision", "status", result.Status)
		return result, nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{PinID: logger.Ptr(result.PinID)})
	if pinMissing {
		s.metrics.ReconciliationWarning()
		slog.WarnContext(ctx, "accepted event request references a missing pin; attendee not added",
			"sender_uid", result.SenderUID,
		)
	}
	if added {
		s.metrics.AttendeeAdded()
	}

	slog.InfoContext(ctx, "event request resolved",
		"status", result.Status,
		"sender_uid", result.SenderUID,
		"attendee_added", added,
	)
	s.publish(ctx, queue.NewRequestEvent(queue.EventTypeRequestResolved, result, *result.ResolvedAt))

	return result, nil
}

// fail returns client errors untouched. Storage errors are recorded on the span,
// logged with the operation name and wrapped.
func (s *eventRequestService) fail(ctx context.Context, sc *logger.SpanContext, op string, err error) error {
	if isClientError(err) {
		return err
	}
	sc.RecordError(err)
	slog.ErrorContext(ctx, "event request "+op+" failed", "error", err)
	return fmt.Errorf("%s event request: %w", op, err)
}

// publish is best-effort: the transition is already committed.
func (s *eventRequestService) publish(ctx context.Context, evt queue.RequestEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.producer.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "publishing request event failed",
			"error", err,
			"type", evt.Type,
		)
	}
}
