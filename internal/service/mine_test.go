package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity/internal/apiclient"
	"fixmycity/internal/model"
)

func TestMyReports_Load(t *testing.T) {
	var gotToken string
	api := &mockAPI{myReportsFn: func(ctx context.Context, token string) ([]model.Report, error) {
		gotToken = token
		return []model.Report{report("a"), report("b")}, nil
	}}
	m := NewMyReports(api, StaticToken("tok"), 0, zerolog.Nop())

	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, []string{"a", "b"}, model.ReportIDs(m.Reports()))
	assert.False(t, m.Loading())
}

func TestMyReports_LoadErrorKeepsList(t *testing.T) {
	api := &mockAPI{myReportsFn: func(ctx context.Context, token string) ([]model.Report, error) {
		return []model.Report{report("a")}, nil
	}}
	m := NewMyReports(api, StaticToken("tok"), 0, zerolog.Nop())
	require.NoError(t, m.Load(context.Background()))

	api.myReportsFn = func(ctx context.Context, token string) ([]model.Report, error) {
		return nil, &apiclient.APIError{StatusCode: 500, Message: apiclient.MsgFetchUserReports}
	}
	err := m.Load(context.Background())

	assert.Equal(t, "Failed to fetch user reports", model.ResultOf(err).Error)
	assert.Equal(t, []string{"a"}, model.ReportIDs(m.Reports()))
}

func TestMyReports_RefreshWaitsThenLoads(t *testing.T) {
	var m *MyReports
	var refreshingDuringFetch bool
	api := &mockAPI{myReportsFn: func(ctx context.Context, token string) ([]model.Report, error) {
		refreshingDuringFetch = m.Refreshing()
		return []model.Report{report("a")}, nil
	}}
	m = NewMyReports(api, StaticToken("tok"), 30*time.Millisecond, zerolog.Nop())

	start := time.Now()
	require.NoError(t, m.Refresh(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.True(t, refreshingDuringFetch)
	assert.False(t, m.Refreshing())
}

func TestMyReports_DeleteTracksPendingID(t *testing.T) {
	var m *MyReports
	var pendingDuringCall string
	api := &mockAPI{
		myReportsFn: func(ctx context.Context, token string) ([]model.Report, error) {
			return []model.Report{report("a"), report("b"), report("c")}, nil
		},
		deleteReportFn: func(ctx context.Context, token, id string) error {
			pendingDuringCall = m.Deleting()
			return nil
		},
	}
	m = NewMyReports(api, StaticToken("tok"), 0, zerolog.Nop())
	require.NoError(t, m.Load(context.Background()))

	require.NoError(t, m.Delete(context.Background(), "b"))

	assert.Equal(t, "b", pendingDuringCall)
	assert.Empty(t, m.Deleting())
	assert.Equal(t, []string{"a", "c"}, model.ReportIDs(m.Reports()))
}

func TestMyReports_DeleteFailureKeepsItem(t *testing.T) {
	api := &mockAPI{
		myReportsFn: func(ctx context.Context, token string) ([]model.Report, error) {
			return []model.Report{report("a")}, nil
		},
		deleteReportFn: func(ctx context.Context, token, id string) error {
			return &apiclient.APIError{StatusCode: 403, Message: apiclient.MsgDeletionFailed}
		},
	}
	m := NewMyReports(api, StaticToken("tok"), 0, zerolog.Nop())
	require.NoError(t, m.Load(context.Background()))

	err := m.Delete(context.Background(), "a")

	assert.Equal(t, "Deletion Failed", model.ResultOf(err).Error)
	assert.Empty(t, m.Deleting())
	assert.Equal(t, []string{"a"}, model.ReportIDs(m.Reports()))
}
