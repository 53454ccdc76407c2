package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// intParam parses a base-10 query parameter, returning fallback when absent.
// Present but non-numeric values are a validation failure.
func intParam(r *http.Request, name string, fallback int, required bool) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		if required {
			return 0, errs.NewValidationError("Invalid " + name + " parameter.")
		}
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError("Invalid " + name + " parameter.")
	}
	return v, nil
}

func parseMonthArgs(r *http.Request) (dto.MonthArgs, error) {
	month, err := intParam(r, "month", 0, true)
	if err != nil {
		return dto.MonthArgs{}, err
	}
	return dto.MonthArgs{Month: month}, nil
}

func parseListArgs(r *http.Request) (dto.ListTransactionsArgs, error) {
	var args dto.ListTransactionsArgs
	var err error

	if args.Month, err = intParam(r, "month", 0, true); err != nil {
		return args, err
	}
	if args.Page, err = intParam(r, "page", defaultPage, false); err != nil {
		return args, err
	}
	if args.PerPage, err = intParam(r, "perPage", defaultPerPage, false); err != nil {
		return args, err
	}
	args.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	return args, nil
}
