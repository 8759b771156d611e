package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persisted domain object that has its own
// identity. Value objects compare by content and do not implement it.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries identity and lifecycle timestamps. Aggregates embed it
// through BaseAggregateRoot; child rows (journal lines, stock locations)
// embed it directly. IDs are generated in the constructor, never by the
// database, so an aggregate and its children can be linked before the first
// save.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity generates a fresh identity with both timestamps set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}
