package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SheetStore talks to the sheet-proxy API for a single file. The remote
// is content addressed: GET returns the rows plus an ETag version token
// and PUT must present that token via If-Match.
type SheetStore[R Row] struct {
	baseURL string
	file    string
	token   string
	client  *http.Client
}

type sheetDocument[R Row] struct {
	Rows []R `json:"rows"`
}

func NewSheetStore[R Row](baseURL, file, token string) *SheetStore[R] {
	return &SheetStore[R]{
		baseURL: baseURL,
		file:    file,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SheetStore[R]) url() string {
	return s.baseURL + "/files/" + s.file
}

func (s *SheetStore[R]) Fetch(ctx context.Context) (Snapshot[R], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(), nil)
	if err != nil {
		return Snapshot[R]{}, fmt.Errorf("failed to create fetch request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot[R]{}, fmt.Errorf("fetch %s: %w", s.file, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// No remote document yet: empty rows, null version token.
		return Snapshot[R]{}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return Snapshot[R]{}, fmt.Errorf("fetch %s: %w", s.file, ErrUnauthorized)
	default:
		return Snapshot[R]{}, fmt.Errorf("fetch %s: unexpected status %d", s.file, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot[R]{}, fmt.Errorf("fetch %s: read body: %w", s.file, err)
	}

	var doc sheetDocument[R]
	if err := json.Unmarshal(body, &doc); err != nil {
		return Snapshot[R]{}, fmt.Errorf("fetch %s: decode rows: %w", s.file, err)
	}

	return Snapshot[R]{
		Rows:    doc.Rows,
		Version: resp.Header.Get("ETag"),
	}, nil
}

func (s *SheetStore[R]) Write(ctx context.Context, rows []R, version string) (string, error) {
	if s.token == "" {
		return "", ErrNoCredential
	}

	payload, err := json.Marshal(sheetDocument[R]{Rows: rows})
	if err != nil {
		return "", fmt.Errorf("write %s: encode rows: %w", s.file, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	if version != "" {
		req.Header.Set("If-Match", version)
	} else {
		// First write of a file must not clobber one created since our
		// fetch.
		req.Header.Set("If-None-Match", "*")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", s.file, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return resp.Header.Get("ETag"), nil
	case http.StatusConflict, http.StatusPreconditionFailed:
		return "", ErrVersionConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	default:
		return "", fmt.Errorf("write %s: unexpected status %d", s.file, resp.StatusCode)
	}
}

func (s *SheetStore[R]) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}
