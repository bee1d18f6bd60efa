// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ============================================
// Errors
// ============================================

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidID    = errors.New("invalid id")
	ErrConstraint   = errors.New("constraint violation")
)

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID              string    `bson:"-"`
	Name            string    `bson:"name"`
	Email           string    `bson:"email"`
	Password        string    `bson:"password"`
	Role            string    `bson:"role"`
	Avatar          *string   `bson:"avatar,omitempty"`
	IsEmailVerified bool      `bson:"isEmailVerified"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

type GalleryImage struct {
	URL     string `json:"url" bson:"url"`
	Alt     string `json:"alt,omitempty" bson:"alt,omitempty"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
}

type ProjectImages struct {
	Thumbnail *string        `json:"thumbnail" bson:"thumbnail"`
	Gallery   []GalleryImage `json:"gallery" bson:"gallery"`
}

type ProjectLinks struct {
	Live    *string `json:"live,omitempty" bson:"live,omitempty"`
	GitHub  *string `json:"github,omitempty" bson:"github,omitempty"`
	Behance *string `json:"behance,omitempty" bson:"behance,omitempty"`
}

type ProjectClient struct {
	Name        *string `json:"name,omitempty" bson:"name,omitempty"`
	Company     *string `json:"company,omitempty" bson:"company,omitempty"`
	Testimonial *string `json:"testimonial,omitempty" bson:"testimonial,omitempty"`
}

type ProjectTimeline struct {
	StartDate *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Duration  *string    `json:"duration,omitempty" bson:"duration,omitempty"`
}

type ProjectMetrics struct {
	Views int64 `json:"views" bson:"views"`
	Likes int64 `json:"likes" bson:"likes"`
}

type ProjectSEO struct {
	MetaTitle       *string `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription *string `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	Slug            *string `json:"slug,omitempty" bson:"slug,omitempty"`
}

type Project struct {
	ID              string          `bson:"-"`
	Title           string          `bson:"title"`
	Description     string          `bson:"description"`
	FullDescription *string         `bson:"fullDescription,omitempty"`
	Technologies    []string        `bson:"technologies"`
	Category        string          `bson:"category"`
	Status          string          `bson:"status"`
	Featured        bool            `bson:"featured"`
	Images          ProjectImages   `bson:"images"`
	Links           ProjectLinks    `bson:"links"`
	Client          ProjectClient   `bson:"client"`
	Timeline        ProjectTimeline `bson:"timeline"`
	Metrics         ProjectMetrics  `bson:"metrics"`
	SEO             ProjectSEO      `bson:"seo"`
	CreatedBy       *string         `bson:"createdBy,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt"`
}

type ContactMetadata struct {
	IPAddress   string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent   string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	Referrer    string `json:"referrer,omitempty" bson:"referrer,omitempty"`
	UTMSource   string `json:"utmSource,omitempty" bson:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty" bson:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty" bson:"utmCampaign,omitempty"`
}

type Note struct {
	Note    string    `json:"note" bson:"note"`
	AddedBy string    `json:"addedBy,omitempty" bson:"addedBy,omitempty"`
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}

type ContactNotes struct {
	Internal []Note `json:"internal" bson:"internal"`
	Client   []Note `json:"client" bson:"client"`
}

type FollowUp struct {
	Scheduled   *time.Time `json:"scheduled,omitempty" bson:"scheduled,omitempty"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

type Contact struct {
	ID          string          `bson:"-"`
	Name        string          `bson:"name"`
	Email       string          `bson:"email"`
	Phone       *string         `bson:"phone,omitempty"`
	Company     *string         `bson:"company,omitempty"`
	Subject     string          `bson:"subject"`
	Message     string          `bson:"message"`
	ProjectType *string         `bson:"projectType,omitempty"`
	Budget      string          `bson:"budget"`
	Timeline    string          `bson:"timeline"`
	Status      string          `bson:"status"`
	Priority    string          `bson:"priority"`
	Source      string          `bson:"source"`
	Metadata    ContactMetadata `bson:"metadata"`
	Notes       ContactNotes    `bson:"notes"`
	FollowUp    FollowUp        `bson:"followUp"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

// ============================================
// Query Options
// ============================================

// SortField orders results by a logical field name (e.g. "createdAt").
type SortField struct {
	Field string
	Desc  bool
}

// Page selects a window of an ordered result set.
type Page struct {
	Skip  int
	Limit int
	Sort  []SortField
}

// ParseSort turns "-createdAt title" or "-createdAt,title" into sort fields.
// It returns the first field not present in allowed.
func ParseSort(expr string, allowed []string) ([]SortField, string) {
	var fields []SortField
	for _, part := range strings.FieldsFunc(expr, func(r rune) bool { return r == ',' || r == ' ' }) {
		f := SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			f = SortField{Field: part[1:], Desc: true}
		} else if strings.HasPrefix(part, "+") {
			f.Field = part[1:]
		}
		if !contains(allowed, f.Field) {
			return nil, f.Field
		}
		fields = append(fields, f)
	}
	return fields, ""
}

type ProjectFilter struct {
	Category   string
	Status     string
	Featured   *bool
	Technology string
}

type ContactFilter struct {
	Status      string
	Priority    string
	ProjectType string
	Source      string
}

// GroupCount is one bucket of a group-by count. Missing values are reported
// under the key "unspecified".
type GroupCount struct {
	Key   string
	Count int64
}

const UnspecifiedKey = "unspecified"

var (
	UserSortFields    = []string{"createdAt", "updatedAt", "name", "email", "role"}
	ProjectSortFields = []string{"createdAt", "updatedAt", "title", "category", "status", "featured", "views", "likes"}
	ContactSortFields = []string{"createdAt", "updatedAt", "name", "email", "status", "priority"}

	ProjectGroupFields = []string{"status", "category"}
	ContactGroupFields = []string{"status", "priority", "projectType", "budget", "timeline", "source"}
)

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page Page) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context, filter ProjectFilter, page Page) ([]*Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	// IncrementLikes only matches published projects.
	IncrementLikes(ctx context.Context, id string) (int64, error)
	CountBy(ctx context.Context, field string) ([]GroupCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	SumMetrics(ctx context.Context) (ProjectMetrics, error)
}

type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, filter ContactFilter, page Page) ([]*Contact, error)
	Count(ctx context.Context, filter ContactFilter) (int64, error)
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id string) error
	CountBy(ctx context.Context, field string) ([]GroupCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	FindOverdueFollowUps(ctx context.Context, now time.Time) ([]*Contact, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo    UserRepository
	ProjectRepo ProjectRepository
	ContactRepo ContactRepository
	Health      HealthChecker
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
