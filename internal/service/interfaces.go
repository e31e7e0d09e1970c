package service

import (
	"context"
	"time"

	"fixmycity/internal/model"
)

// AuthAPI is the part of the REST client the session manager needs.
type AuthAPI interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
}

// FeedAPI lists pages of the shared feed.
type FeedAPI interface {
	ListReports(ctx context.Context, token string, page, limit int) (*model.FeedPage, error)
}

// ReportAPI creates and deletes reports.
type ReportAPI interface {
	CreateReport(ctx context.Context, token string, req model.CreateReportRequest) (*model.Report, error)
	DeleteReport(ctx context.Context, token, id string) error
}

// MineAPI lists and deletes the signed-in user's reports.
type MineAPI interface {
	MyReports(ctx context.Context, token string) ([]model.Report, error)
	DeleteReport(ctx context.Context, token, id string) error
}

// TokenSource hands out the current bearer token. SessionManager implements it;
// an empty token means logged out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// minDelay blocks for d or until ctx is done.
func minDelay(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
