package repository

import (
	"context"

	"fixmycity/internal/model"
)

// UserRecord is a stored account: the public profile plus its password hash.
type UserRecord struct {
	Profile      model.UserProfile
	PasswordHash []byte
}

type UserRepository interface {
	Create(ctx context.Context, u *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	// List returns one page, newest first, and the total number of reports.
	List(ctx context.Context, offset, limit int) ([]model.Report, int, error)
	ListByUser(ctx context.Context, userID string) ([]model.Report, error)
	Delete(ctx context.Context, id string) error
}
