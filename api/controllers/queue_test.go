package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/queuedesk/queuedesk-backend/internal/queue"
)

type stubQueueService struct {
	entries []queue.ApplicationEntry
	entry   *queue.ApplicationEntry
	stats   *queue.TodayStats
	err     error
	list    queue.ListParams
	slot    time.Time
}

func (s *stubQueueService) List(ctx context.Context, params queue.ListParams) ([]queue.ApplicationEntry, error) {
	s.list = params
	return s.entries, s.err
}

func (s *stubQueueService) Next(ctx context.Context) (*queue.ApplicationEntry, error) {
	return s.entry, s.err
}

func (s *stubQueueService) SlotQueue(ctx context.Context, slotTS time.Time) ([]queue.ApplicationEntry, error) {
	s.slot = slotTS
	return s.entries, s.err
}

func (s *stubQueueService) TodayStats(ctx context.Context) (*queue.TodayStats, error) {
	return s.stats, s.err
}

func TestListApplicationsParsesQuery(t *testing.T) {
	svc := &stubQueueService{entries: []queue.ApplicationEntry{}}
	handler := ListApplications(svc, nil)

	target := "/admin/applications?status=ALL&slot_ts=2026-08-31T10:00:00Z&limit=25&offset=50"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.list.Status != queue.StatusAll {
		t.Fatalf("expected status ALL got %q", svc.list.Status)
	}
	if svc.list.Limit != 25 || svc.list.Offset != 50 {
		t.Fatalf("unexpected paging: %+v", svc.list)
	}
	want := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if svc.list.SlotTS == nil || !svc.list.SlotTS.Equal(want) {
		t.Fatalf("expected slot filter %v got %v", want, svc.list.SlotTS)
	}
}

func TestListApplicationsRejectsBadSlotTimestamp(t *testing.T) {
	svc := &stubQueueService{}
	handler := ListApplications(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/applications?slot_ts=tomorrow", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSlotQueuePassesSlot(t *testing.T) {
	svc := &stubQueueService{entries: []queue.ApplicationEntry{}}
	handler := SlotQueue(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/slots/queue?slot_ts=2026-08-31T10:00:00Z", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if !svc.slot.Equal(want) {
		t.Fatalf("expected slot %v got %v", want, svc.slot)
	}
}

func TestTodayStatsWritesEnvelope(t *testing.T) {
	svc := &stubQueueService{stats: &queue.TodayStats{Active: 2, Finished: 1, Cancelled: 1, Total: 4}}
	handler := TodayStats(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats/today", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Stats queue.TodayStats `json:"stats"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Stats.Total != 4 {
		t.Fatalf("expected total 4 got %d", envelope.Data.Stats.Total)
	}
}
