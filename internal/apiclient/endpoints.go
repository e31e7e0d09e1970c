package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"fixmycity/internal/model"
)

// Register posts the sign-up fields to /auth/register.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/auth/register",
		body:       req,
		out:        &out,
		defaultMsg: MsgAuthFailed,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/auth/login",
		body:       req,
		out:        &out,
		defaultMsg: MsgAuthFailed,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports fetches one page of the shared feed.
func (c *Client) ListReports(ctx context.Context, token string, page, limit int) (*model.FeedPage, error) {
	if token == "" {
		return nil, model.ErrNotLoggedIn
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out model.FeedPage
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/report?" + q.Encode(),
		token:      token,
		out:        &out,
		defaultMsg: MsgFetchReports,
	})
	if err != nil {
		return nil, err
	}
	if out.Reports == nil {
		out.Reports = []model.Report{}
	}
	return &out, nil
}

// MyReports fetches every report owned by the session's user.
func (c *Client) MyReports(ctx context.Context, token string) ([]model.Report, error) {
	if token == "" {
		return nil, model.ErrNotLoggedIn
	}

	var out []model.Report
	err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/report/mine",
		token:      token,
		out:        &out,
		defaultMsg: MsgFetchUserReports,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Report{}
	}
	return out, nil
}

// CreateReport posts a fully encoded report.
func (c *Client) CreateReport(ctx context.Context, token string, req model.CreateReportRequest) (*model.Report, error) {
	if token == "" {
		return nil, model.ErrNotLoggedIn
	}

	var out model.Report
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/report/",
		token:      token,
		body:       req,
		out:        &out,
		defaultMsg: MsgSubmissionFailed,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReport removes a report by id.
func (c *Client) DeleteReport(ctx context.Context, token, id string) error {
	if token == "" {
		return model.ErrNotLoggedIn
	}
	if id == "" {
		return model.ErrMissingReportID
	}

	return c.do(ctx, request{
		method:     http.MethodDelete,
		path:       "/report/" + url.PathEscape(id),
		token:      token,
		defaultMsg: MsgDeletionFailed,
	})
}
