package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Creastina/bambushain/internal/model"
)

// adminClient talks to the grove administration endpoints of a running server
type adminClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newAdminClient(baseURL, apiKey string) *adminClient {
	return &adminClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *adminClient) listGroves(ctx context.Context) ([]model.GroveWithMods, error) {
	var groves []model.GroveWithMods
	if err := c.do(ctx, http.MethodGet, "/api/admin/grove", nil, http.StatusOK, &groves); err != nil {
		return nil, err
	}
	return groves, nil
}

func (c *adminClient) createGrove(ctx context.Context, req model.CreateGroveRequest) (*model.GroveWithMods, error) {
	var grove model.GroveWithMods
	if err := c.do(ctx, http.MethodPost, "/api/admin/grove", req, http.StatusCreated, &grove); err != nil {
		return nil, err
	}
	return &grove, nil
}

func (c *adminClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		return problemError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// problemError turns a problem details response into an error message
func problemError(resp *http.Response) error {
	var problem model.ProblemDetails
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil || problem.Title == "" {
		return fmt.Errorf("server answered %s", resp.Status)
	}

	msg := problem.Title
	if problem.Detail != "" {
		msg += ": " + problem.Detail
	}
	for _, fe := range problem.Errors {
		msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
	}
	return fmt.Errorf("%s (%d)", msg, resp.StatusCode)
}
