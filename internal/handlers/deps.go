package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/transactions-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	QuerySvc        QueryService
	SeedSvc         SeedService
}
