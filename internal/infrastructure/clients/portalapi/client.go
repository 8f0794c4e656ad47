// Package portalapi is an HTTP client for the facility locator API. It
// serves as the locator's store, token source and directions source.
package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type facilityListResponse struct {
	Facilities []entities.Facility `json:"facilities"`
	Count      int                 `json:"count"`
}

type reviewListResponse struct {
	Reviews []entities.Review      `json:"reviews"`
	Summary entities.ReviewSummary `json:"summary"`
}

type reviewRequest struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListFacilities returns every facility ordered by name.
func (c *HTTPClient) ListFacilities(ctx context.Context) ([]entities.Facility, error) {
	out := &facilityListResponse{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/facilities", nil, out); err != nil {
		return nil, err
	}
	if out.Facilities == nil {
		out.Facilities = []entities.Facility{}
	}
	return out.Facilities, nil
}

// ListReviews returns a facility's reviews, newest first.
func (c *HTTPClient) ListReviews(ctx context.Context, facilityID string) ([]entities.Review, error) {
	if strings.TrimSpace(facilityID) == "" {
		return nil, apperrors.NewValidationError("facility id is required")
	}
	endpoint := fmt.Sprintf("%s/api/facilities/%s/reviews", c.baseURL, url.PathEscape(facilityID))
	out := &reviewListResponse{}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		out.Reviews = []entities.Review{}
	}
	return out.Reviews, nil
}

func (c *HTTPClient) SubmitReview(ctx context.Context, draft entities.ReviewDraft) error {
	if strings.TrimSpace(draft.FacilityID) == "" {
		return apperrors.NewValidationError("facility id is required")
	}
	body, err := json.Marshal(reviewRequest{UserName: draft.UserName, Rating: draft.Rating, Comment: draft.Comment})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/api/facilities/%s/reviews", c.baseURL, url.PathEscape(draft.FacilityID))
	return c.doJSON(ctx, http.MethodPost, endpoint, bytes.NewReader(body), nil)
}

// Token fetches a map access token.
func (c *HTTPClient) Token(ctx context.Context) (string, error) {
	out := &tokenResponse{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/maps/token", nil, out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", apperrors.NewExternalError("map token response was empty", nil)
	}
	return out.Token, nil
}

// Directions proxies a route request. An empty slice means no route.
func (c *HTTPClient) Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error) {
	body, err := json.Marshal(entities.DirectionsRequest{Origin: origin, Destination: destination})
	if err != nil {
		return nil, err
	}
	out := &entities.DirectionsResponse{}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/maps/directions", bytes.NewReader(body), out); err != nil {
		return nil, err
	}
	if out.Routes == nil {
		out.Routes = []entities.Route{}
	}
	return out.Routes, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewExternalError("locator api unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("locator api returned an invalid response", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = fmt.Sprintf("locator api returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(msg)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(msg)
	case http.StatusConflict, http.StatusTooManyRequests:
		return apperrors.NewConflictError(msg)
	default:
		return apperrors.NewExternalError(msg, fmt.Errorf("status %d", resp.StatusCode))
	}
}
