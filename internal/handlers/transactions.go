package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/response"
)

type QueryService interface {
	ListTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error)
	GetStatistics(ctx context.Context, args dto.MonthArgs) (dto.StatisticsResult, error)
	GetBarChart(ctx context.Context, args dto.MonthArgs) ([]dto.BarChartBucket, error)
	GetPieChart(ctx context.Context, args dto.MonthArgs) ([]dto.CategoryCount, error)
	GetCombined(ctx context.Context, args dto.ListTransactionsArgs) (dto.CombinedResult, error)
}

type SeedService interface {
	Initialize(ctx context.Context) (dto.InitializeResult, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	QuerySvc        QueryService
	SeedSvc         SeedService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		QuerySvc:        deps.QuerySvc,
		SeedSvc:         deps.SeedSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/initialize", h.Initialize)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/statistics", h.GetStatistics)
	r.Get("/barchart", h.GetBarChart)
	r.Get("/piechart", h.GetPieChart)
	r.Get("/alldata", h.GetAllData)
	return r
}

func (h *transactionHandlers) Initialize(w http.ResponseWriter, r *http.Request) {
	result, err := h.SeedSvc.Initialize(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	args, err := parseListArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.QuerySvc.ListTransactions(r.Context(), args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	args, err := parseMonthArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.QuerySvc.GetStatistics(r.Context(), args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetBarChart(w http.ResponseWriter, r *http.Request) {
	args, err := parseMonthArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.QuerySvc.GetBarChart(r.Context(), args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetPieChart(w http.ResponseWriter, r *http.Request) {
	args, err := parseMonthArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.QuerySvc.GetPieChart(r.Context(), args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionHandlers) GetAllData(w http.ResponseWriter, r *http.Request) {
	args, err := parseListArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.QuerySvc.GetCombined(r.Context(), args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
