package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
)

// --- Stubs ---

type stubQueryService struct {
	listResult  dto.ListTransactionsResult
	statsResult dto.StatisticsResult
	barResult   []dto.BarChartBucket
	pieResult   []dto.CategoryCount
	allResult   dto.CombinedResult
	err         error

	called    string
	lastList  dto.ListTransactionsArgs
	lastMonth dto.MonthArgs
}

func (s *stubQueryService) ListTransactions(_ context.Context, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error) {
	s.called, s.lastList = "list", args
	return s.listResult, s.err
}

func (s *stubQueryService) GetStatistics(_ context.Context, args dto.MonthArgs) (dto.StatisticsResult, error) {
	s.called, s.lastMonth = "statistics", args
	return s.statsResult, s.err
}

func (s *stubQueryService) GetBarChart(_ context.Context, args dto.MonthArgs) ([]dto.BarChartBucket, error) {
	s.called, s.lastMonth = "barchart", args
	return s.barResult, s.err
}

func (s *stubQueryService) GetPieChart(_ context.Context, args dto.MonthArgs) ([]dto.CategoryCount, error) {
	s.called, s.lastMonth = "piechart", args
	return s.pieResult, s.err
}

func (s *stubQueryService) GetCombined(_ context.Context, args dto.ListTransactionsArgs) (dto.CombinedResult, error) {
	s.called, s.lastList = "combined", args
	return s.allResult, s.err
}

type stubSeedService struct {
	called bool
	result dto.InitializeResult
	err    error
}

func (s *stubSeedService) Initialize(_ context.Context) (dto.InitializeResult, error) {
	s.called = true
	return s.result, s.err
}

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

func newTestHandlers(q *stubQueryService, seed *stubSeedService, resp *stubResponseHandler) *transactionHandlers {
	return NewTransactionHandlers(&Deps{ResponseHandler: resp, QuerySvc: q, SeedSvc: seed})
}

// --- Tests ---

func TestListTransactionsDefaults(t *testing.T) {
	svc := &stubQueryService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, nil, resp)

	req := httptest.NewRequest(http.MethodGet, "/transactions?month=3", nil)
	rr := httptest.NewRecorder()
	h.ListTransactions(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	want := dto.ListTransactionsArgs{Month: 3, Page: 1, PerPage: 10}
	if svc.lastList != want {
		t.Fatalf("args mismatch: got %+v want %+v", svc.lastList, want)
	}
}

func TestListTransactionsPassesParams(t *testing.T) {
	svc := &stubQueryService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, nil, resp)

	req := httptest.NewRequest(http.MethodGet, "/transactions?month=11&search=%20Mouse%20&page=3&perPage=5", nil)
	rr := httptest.NewRecorder()
	h.ListTransactions(rr, req)

	want := dto.ListTransactionsArgs{Month: 11, Search: "Mouse", Page: 3, PerPage: 5}
	if svc.lastList != want {
		t.Fatalf("args mismatch: got %+v want %+v", svc.lastList, want)
	}
}

func TestMonthParsingFailures(t *testing.T) {
	for _, target := range []string{
		"/statistics",
		"/statistics?month=",
		"/statistics?month=march",
		"/statistics?month=3.5",
	} {
		svc := &stubQueryService{}
		resp := &stubResponseHandler{}
		h := newTestHandlers(svc, nil, resp)

		rr := httptest.NewRecorder()
		h.GetStatistics(rr, httptest.NewRequest(http.MethodGet, target, nil))

		if svc.called != "" {
			t.Fatalf("%s: service should not be called", target)
		}
		var vErr *errs.ValidationError
		if !resp.handleErrorCalled || !errors.As(resp.handleError, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", target, resp.handleError)
		}
		if vErr.Message != "Invalid month parameter." {
			t.Fatalf("%s: message mismatch %q", target, vErr.Message)
		}
	}
}

func TestNonNumericPageRejected(t *testing.T) {
	svc := &stubQueryService{}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, nil, resp)

	rr := httptest.NewRecorder()
	h.GetAllData(rr, httptest.NewRequest(http.MethodGet, "/alldata?month=3&page=two", nil))

	if svc.called != "" || !resp.handleErrorCalled {
		t.Fatalf("expected validation failure, called=%q", svc.called)
	}
	if resp.handleError.Error() != "Invalid page parameter." {
		t.Fatalf("message mismatch: %q", resp.handleError.Error())
	}
}

func TestMonthHandlersCallService(t *testing.T) {
	cases := []struct {
		name    string
		handler func(h *transactionHandlers) http.HandlerFunc
	}{
		{"statistics", func(h *transactionHandlers) http.HandlerFunc { return h.GetStatistics }},
		{"barchart", func(h *transactionHandlers) http.HandlerFunc { return h.GetBarChart }},
		{"piechart", func(h *transactionHandlers) http.HandlerFunc { return h.GetPieChart }},
	}
	for _, tc := range cases {
		svc := &stubQueryService{}
		resp := &stubResponseHandler{}
		h := newTestHandlers(svc, nil, resp)

		rr := httptest.NewRecorder()
		tc.handler(h)(rr, httptest.NewRequest(http.MethodGet, "/x?month=12", nil))

		if svc.called != tc.name || svc.lastMonth.Month != 12 {
			t.Fatalf("%s: expected service call with month 12, got %q %+v", tc.name, svc.called, svc.lastMonth)
		}
		if !resp.writeSuccessCalled {
			t.Fatalf("%s: expected WriteSuccess", tc.name)
		}
	}
}

func TestGetAllDataServiceError(t *testing.T) {
	svc := &stubQueryService{err: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := newTestHandlers(svc, nil, resp)

	rr := httptest.NewRecorder()
	h.GetAllData(rr, httptest.NewRequest(http.MethodGet, "/alldata?month=3", nil))

	if svc.called != "combined" {
		t.Fatalf("expected combined call, got %q", svc.called)
	}
	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatalf("expected only HandleError")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestInitialize(t *testing.T) {
	seed := &stubSeedService{result: dto.InitializeResult{Message: "Database initialized with seed data", Count: 60}}
	resp := &stubResponseHandler{}
	h := newTestHandlers(&stubQueryService{}, seed, resp)

	rr := httptest.NewRecorder()
	h.Initialize(rr, httptest.NewRequest(http.MethodGet, "/initialize", nil))

	if !seed.called {
		t.Fatal("expected seed service call")
	}
	got, ok := resp.writeSuccessData.(dto.InitializeResult)
	if !ok || got.Count != 60 {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestInitializeError(t *testing.T) {
	seed := &stubSeedService{err: errs.NewExternalServiceError("seed", "failed to fetch seed data", true, nil)}
	resp := &stubResponseHandler{}
	h := newTestHandlers(&stubQueryService{}, seed, resp)

	rr := httptest.NewRecorder()
	h.Initialize(rr, httptest.NewRequest(http.MethodGet, "/initialize", nil))

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}
