package seedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
)

const (
	serviceName = "seed"

	// DefaultURL is the public product transaction dataset.
	DefaultURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

	maxBodyBytes = 32 << 20
)

type Adapter struct {
	url        string
	httpClient *http.Client
}

func NewAdapter(url string, timeout time.Duration) *Adapter {
	if url == "" {
		url = DefaultURL
	}
	return &Adapter{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTransactions downloads and decodes the seed dataset.
func (a *Adapter) FetchTransactions(ctx context.Context) ([]dto.SeedTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, "failed to build seed request", false, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceName, "failed to fetch seed data", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, errs.NewExternalServiceError(serviceName,
			fmt.Sprintf("seed source returned status %d", resp.StatusCode), transient, nil)
	}

	var txs []dto.SeedTransaction
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&txs); err != nil {
		return nil, errs.NewExternalServiceError(serviceName, "failed to decode seed data", false, err)
	}
	if txs == nil {
		txs = []dto.SeedTransaction{}
	}
	return txs, nil
}
