package payments

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProviderEvent archives every accepted webhook delivery. The unique key
// on (event_type, object_id) catches exact duplicate deliveries before
// dispatch runs.
type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	EventType   string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_type_object,priority:1"`
	ObjectID    string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_type_object,priority:2"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`
	ReceivedAt  time.Time      `gorm:"type:datetime(3);not null"`
}

func (ProviderEvent) TableName() string { return "provider_events" }

// EventLog records deliveries and reports duplicates.
type EventLog interface {
	Record(ctx context.Context, eventType, objectID string, payload []byte) (duplicate bool, err error)
}

type GormEventLog struct {
	db *gorm.DB
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db: db}
}

func (l *GormEventLog) Record(ctx context.Context, eventType, objectID string, payload []byte) (bool, error) {
	pe := ProviderEvent{
		ID:          uuid.NewString(),
		EventType:   eventType,
		ObjectID:    objectID,
		PayloadJSON: datatypes.JSON(payload),
		ReceivedAt:  time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(&pe).Error; err != nil {
		if isDup(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// NopEventLog archives nothing; status-level idempotence still applies.
type NopEventLog struct{}

func (NopEventLog) Record(context.Context, string, string, []byte) (bool, error) {
	return false, nil
}
