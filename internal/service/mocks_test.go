package service

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fixmycity/internal/model"
	"fixmycity/internal/storage"
)

// =============================================================================
// MOCK API
// =============================================================================
//
// One mock covers every API interface the services depend on. Each test sets
// only the fn fields it needs; the rest fail loudly with errUnexpectedCall.

var errUnexpectedCall = errors.New("unexpected call")

type mockAPI struct {
	registerFn     func(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	loginFn        func(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	listReportsFn  func(ctx context.Context, token string, page, limit int) (*model.FeedPage, error)
	myReportsFn    func(ctx context.Context, token string) ([]model.Report, error)
	createReportFn func(ctx context.Context, token string, req model.CreateReportRequest) (*model.Report, error)
	deleteReportFn func(ctx context.Context, token, id string) error

	mu    sync.Mutex
	calls []string
}

func (m *mockAPI) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *mockAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockAPI) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	m.record("Register")
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errUnexpectedCall
}

func (m *mockAPI) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	m.record("Login")
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, errUnexpectedCall
}

func (m *mockAPI) ListReports(ctx context.Context, token string, page, limit int) (*model.FeedPage, error) {
	m.record("ListReports")
	if m.listReportsFn != nil {
		return m.listReportsFn(ctx, token, page, limit)
	}
	return nil, errUnexpectedCall
}

func (m *mockAPI) MyReports(ctx context.Context, token string) ([]model.Report, error) {
	m.record("MyReports")
	if m.myReportsFn != nil {
		return m.myReportsFn(ctx, token)
	}
	return nil, errUnexpectedCall
}

func (m *mockAPI) CreateReport(ctx context.Context, token string, req model.CreateReportRequest) (*model.Report, error) {
	m.record("CreateReport")
	if m.createReportFn != nil {
		return m.createReportFn(ctx, token, req)
	}
	return nil, errUnexpectedCall
}

func (m *mockAPI) DeleteReport(ctx context.Context, token, id string) error {
	m.record("DeleteReport")
	if m.deleteReportFn != nil {
		return m.deleteReportFn(ctx, token, id)
	}
	return errUnexpectedCall
}

// =============================================================================
// MOCK STORE AND S3
// =============================================================================

// failingStore is an empty store whose operations return the configured errors.
type failingStore struct {
	loadErr  error
	saveErr  error
	clearErr error

	clearCalls int
}

func (s *failingStore) Load(context.Context) (string, []byte, error) {
	return "", nil, s.loadErr
}

func (s *failingStore) Save(context.Context, string, []byte) error {
	return s.saveErr
}

func (s *failingStore) Clear(context.Context) error {
	s.clearCalls++
	return s.clearErr
}

// gatedStore writes through to a Memory store. A Save of the held token
// signals saved once written and then waits for release before returning.
type gatedStore struct {
	*storage.Memory
	hold    string
	saved   chan struct{}
	release chan struct{}
}

func newGatedStore(hold string) *gatedStore {
	return &gatedStore{
		Memory:  storage.NewMemory(),
		hold:    hold,
		saved:   make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *gatedStore) Save(ctx context.Context, token string, user []byte) error {
	if err := s.Memory.Save(ctx, token, user); err != nil {
		return err
	}
	if token == s.hold {
		close(s.saved)
		<-s.release
	}
	return nil
}

type mockPutter struct {
	putFn func(ctx context.Context, params *s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return m.putFn(ctx, params)
}

func report(id string) model.Report {
	return model.Report{ID: id, Title: "title " + id, Rating: 3}
}
