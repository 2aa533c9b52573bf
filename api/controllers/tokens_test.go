package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/queuedesk/queuedesk-backend/api/middleware"
	"github.com/queuedesk/queuedesk-backend/internal/tokens"
	"github.com/queuedesk/queuedesk-backend/pkg/enums"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
)

type stubTokensService struct {
	own    *tokens.OwnTokenDTO
	token  *tokens.TokenDTO
	err    error
	issued int64
	verify tokens.VerifyFinishRequest
	cancel tokens.CancelRequest
}

func (s *stubTokensService) Issue(ctx context.Context, applicantID int64) (*tokens.OwnTokenDTO, error) {
	s.issued = applicantID
	return s.own, s.err
}

func (s *stubTokensService) Active(ctx context.Context, applicantID int64) (*tokens.OwnTokenDTO, error) {
	return s.own, s.err
}

func (s *stubTokensService) RequestFinish(ctx context.Context, applicantID int64) (*tokens.OwnTokenDTO, error) {
	return s.own, s.err
}

func (s *stubTokensService) VerifyFinish(ctx context.Context, req tokens.VerifyFinishRequest) (*tokens.TokenDTO, error) {
	s.verify = req
	return s.token, s.err
}

func (s *stubTokensService) Cancel(ctx context.Context, req tokens.CancelRequest) (*tokens.TokenDTO, error) {
	s.cancel = req
	return s.token, s.err
}

func TestIssueTokenUsesAuthenticatedApplicant(t *testing.T) {
	svc := &stubTokensService{own: &tokens.OwnTokenDTO{
		TokenDTO: tokens.TokenDTO{
			ID:      7,
			TokenNo: "T004",
			Status:  enums.TokenStatusActive,
			SlotTS:  time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		},
		OTPCode: "123456",
	}}
	handler := IssueToken(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req = req.WithContext(middleware.WithApplicantID(req.Context(), 42))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.issued != 42 {
		t.Fatalf("expected applicant 42 got %d", svc.issued)
	}

	var envelope struct {
		Data struct {
			Token struct {
				TokenNo string `json:"token_no"`
				OTPCode string `json:"otp_code"`
			} `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token.TokenNo != "T004" {
		t.Fatalf("expected token T004 got %s", envelope.Data.Token.TokenNo)
	}
	if envelope.Data.Token.OTPCode != "123456" {
		t.Fatalf("expected the holder's own view to include the otp")
	}
}

func TestIssueTokenPropagatesSlotFull(t *testing.T) {
	svc := &stubTokensService{err: pkgerrors.New(pkgerrors.CodeSlotFull, "slot is full")}
	handler := IssueToken(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req = req.WithContext(middleware.WithApplicantID(req.Context(), 42))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestVerifyFinishRejectsMissingFields(t *testing.T) {
	svc := &stubTokensService{}
	handler := VerifyFinish(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/tokens/verify-finish", bytes.NewReader([]byte(`{"otp":"123456"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.verify.ApplicantID != 0 {
		t.Fatalf("service should not be called on invalid payloads")
	}
}

func TestCancelTokenDecodesIdentityProof(t *testing.T) {
	svc := &stubTokensService{token: &tokens.TokenDTO{
		ID:      3,
		TokenNo: "T001",
		Status:  enums.TokenStatusCancelled,
	}}
	handler := CancelToken(svc, nil)

	body := []byte(`{"aadhaar_number": "1234 5678 9012", "token_no": "T001"}`)
	req := httptest.NewRequest(http.MethodPost, "/tokens/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.cancel.AadhaarNumber != "1234 5678 9012" || svc.cancel.TokenNo != "T001" {
		t.Fatalf("unexpected cancel payload: %+v", svc.cancel)
	}
}
