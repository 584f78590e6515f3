package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleSuperUser = "superuser"
)

const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderKid    = "kid"
	GenderUnisex = "unisex"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"      json:"id"`
	Email        string         `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string         `gorm:"not null"                  json:"-"`
	FullName     string         `gorm:"not null"                  json:"full_name"`
	IsActive     bool           `gorm:"default:true"              json:"is_active"`
	Roles        pq.StringArray `gorm:"type:text[]"               json:"roles"`
	Products     []Product      `gorm:"foreignKey:UserID"         json:"-"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if len(u.Roles) == 0 {
		u.Roles = pq.StringArray{RoleUser}
	}
	return nil
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"uniqueIndex;not null" json:"title"`
	Price       float64        `gorm:"default:0"            json:"price"`
	Description string         `json:"description"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Stock       int            `gorm:"default:0"            json:"stock"`
	Sizes       pq.StringArray `gorm:"type:text[]"          json:"sizes"`
	Gender      string         `gorm:"not null"             json:"gender"`
	Tags        pq.StringArray `gorm:"type:text[]"          json:"tags"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	UserID      uuid.UUID      `gorm:"type:uuid;index"      json:"user_id"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"not null"                 json:"url"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
}

// SlugFromTitle derives the public slug from a title: lowercased, spaces
// replaced with underscores, apostrophes removed.
func SlugFromTitle(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = strings.ReplaceAll(slug, "'", "")
	return slug
}
