package feeds

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoFeed = errors.New("no active payment feed for form")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ActiveForForm returns the first active feed for a form.
func (r *Repo) ActiveForForm(ctx context.Context, formID int64) (*Feed, error) {
	var f Feed
	err := r.db.WithContext(ctx).
		Where("form_id = ? AND active = ?", formID, true).
		Order("created_at ASC").
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoFeed
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repo) Create(ctx context.Context, f *Feed) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	return r.db.WithContext(ctx).Create(f).Error
}
