package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Post is a marketplace listing scoped to the owner's school.
type Post struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	SchoolID    uuid.UUID        `gorm:"column:school_id;type:uuid;not null" json:"school_id"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	PostType    enums.PostType   `gorm:"column:post_type;type:text;not null" json:"post_type"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description string           `gorm:"column:description;not null" json:"description"`
	Condition   *string          `gorm:"column:condition" json:"condition,omitempty"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	Status      enums.PostStatus `gorm:"column:status;type:text;not null;default:'Listed'" json:"status"`
	Images      pq.StringArray   `gorm:"column:images;type:text[]" json:"images"`
	PickupLat   *float64         `gorm:"column:pickup_lat" json:"pickup_lat,omitempty"`
	PickupLng   *float64         `gorm:"column:pickup_lng" json:"pickup_lng,omitempty"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
