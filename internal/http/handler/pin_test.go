package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pinboard.app/api/internal/http/handler"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/service"
)

var _ = Describe("PinHandler", func() {
	var (
		router *gin.Engine
		svc    *mockPinService
	)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		router = gin.New()
		svc = &mockPinService{}
		h := handler.NewPinHandler(svc)
		router.POST("/pins", h.Create)
		router.GET("/pins", h.List)
		router.GET("/pins/:id", h.Get)
	})

	It("creates a pin", func() {
		svc.createFn = func(_ context.Context, p service.CreatePinParams) (*model.Pin, error) {
			Expect(p.Category).To(Equal(model.PinCategoryBeach))
			Expect(p.EventDate).To(BeTemporally("==", time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)))
			return &model.Pin{ID: 11, OwnerUID: p.OwnerUID, Title: p.Title, Category: p.Category}, nil
		}

		w := serve(http.MethodPost, "/pins", `{
			"owner_uid": "bob",
			"latitude": 43.7,
			"longitude": 7.26,
			"event_date": "2025-08-01T10:00:00Z",
			"title": "Swim",
			"category": "beach"
		}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"id":"11"`))
		Expect(w.Body.String()).To(ContainSubstring(`"attendees":[]`))
	})

	It("returns 400 for a bad pin id", func() {
		w := serve(http.MethodGet, "/pins/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for a missing pin", func() {
		svc.getFn = func(context.Context, int64) (*model.Pin, error) {
			return nil, service.ErrPinNotFound
		}
		w := serve(http.MethodGet, "/pins/5", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("lists pins", func() {
		svc.listFn = func(context.Context) ([]model.Pin, error) {
			return []model.Pin{{ID: 1, Attendees: []string{"alice"}}, {ID: 2}}, nil
		}
		w := serve(http.MethodGet, "/pins", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"attendees":["alice"]`))
	})

	It("returns 500 when listing fails", func() {
		svc.listFn = func(context.Context) ([]model.Pin, error) {
			return nil, errors.New("listing pins: timeout")
		}
		w := serve(http.MethodGet, "/pins", "")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("HealthHandler", func() {
	It("reports database reachability", func() {
		pinger := &mockPinger{}
		router := gin.New()
		router.GET("/health", handler.NewHealthHandler(pinger).Check)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		pinger.err = errors.New("down")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
