package models

import (
	"strings"
	"time"

	"github.com/pixelcraft/agency-api/internal/repository"
)

// Request DTOs implement Normalize so the binding validator can trim input
// before the rules run.

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func lowerEmail(s *string) {
	if s != nil {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50,personname"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=100,strongpassword"`
}

func (r *RegisterRequest) Normalize() {
	trim(&r.Name)
	lowerEmail(&r.Email)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Normalize() {
	lowerEmail(&r.Email)
}

type AuthResponse struct {
	User  *UserResponse `json:"user,omitempty"`
	Token string        `json:"token"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Avatar          *string   `json:"avatar"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewUserResponse(u *repository.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Avatar:          u.Avatar,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=50,personname"`
	Email  *string `json:"email" binding:"omitempty,email,max=100"`
	Avatar *string `json:"avatar" binding:"omitempty,url"`
}

func (r *UpdateProfileRequest) Normalize() {
	trim(r.Name)
	lowerEmail(r.Email)
	trim(r.Avatar)
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=100,strongpassword"`
}

type AdminUpdateUserRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=50,personname"`
	Email           *string `json:"email" binding:"omitempty,email,max=100"`
	Role            *string `json:"role" binding:"omitempty,role"`
	IsEmailVerified *bool   `json:"isEmailVerified"`
}

func (r *AdminUpdateUserRequest) Normalize() {
	trim(r.Name)
	lowerEmail(r.Email)
	trim(r.Role)
}

// ============================================
// Project DTOs
// ============================================

type GalleryImageInput struct {
	URL     string `json:"url" binding:"required,url"`
	Alt     string `json:"alt" binding:"max=100"`
	Caption string `json:"caption" binding:"max=200"`
}

type ImagesInput struct {
	Thumbnail *string             `json:"thumbnail" binding:"omitempty,url"`
	Gallery   []GalleryImageInput `json:"gallery" binding:"omitempty,max=20,dive"`
}

type LinksInput struct {
	Live    *string `json:"live" binding:"omitempty,url"`
	GitHub  *string `json:"github" binding:"omitempty,url"`
	Behance *string `json:"behance" binding:"omitempty,url"`
}

type ClientInput struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Company     *string `json:"company" binding:"omitempty,max=100"`
	Testimonial *string `json:"testimonial" binding:"omitempty,max=1000"`
}

type TimelineInput struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Duration  *string    `json:"duration" binding:"omitempty,max=50"`
}

type SEOInput struct {
	MetaTitle       *string `json:"metaTitle" binding:"omitempty,max=60"`
	MetaDescription *string `json:"metaDescription" binding:"omitempty,max=160"`
	Slug            *string `json:"slug" binding:"omitempty,max=120,slug"`
}

type CreateProjectRequest struct {
	Title           string         `json:"title" binding:"required,min=2,max=100"`
	Description     string         `json:"description" binding:"required,min=10,max=500"`
	FullDescription *string        `json:"fullDescription" binding:"omitempty,max=2000"`
	Technologies    []string       `json:"technologies" binding:"omitempty,max=10,dive,min=1,max=30"`
	Category        string         `json:"category" binding:"required,category"`
	Status          *string        `json:"status" binding:"omitempty,projectstatus"`
	Featured        *bool          `json:"featured"`
	Images          *ImagesInput   `json:"images"`
	Links           *LinksInput    `json:"links"`
	Client          *ClientInput   `json:"client"`
	Timeline        *TimelineInput `json:"timeline"`
	SEO             *SEOInput      `json:"seo"`
}

func (r *CreateProjectRequest) Normalize() {
	trim(&r.Title)
	trim(&r.Description)
	trim(r.FullDescription)
	trim(&r.Category)
	trim(r.Status)
	for i := range r.Technologies {
		trim(&r.Technologies[i])
	}
	normalizeNested(r.Images, r.Links, r.Client, r.Timeline, r.SEO)
}

func normalizeNested(images *ImagesInput, links *LinksInput, client *ClientInput, timeline *TimelineInput, seo *SEOInput) {
	if images != nil {
		trim(images.Thumbnail)
		for i := range images.Gallery {
			trim(&images.Gallery[i].URL)
			trim(&images.Gallery[i].Alt)
			trim(&images.Gallery[i].Caption)
		}
	}
	if links != nil {
		trim(links.Live)
		trim(links.GitHub)
		trim(links.Behance)
	}
	if client != nil {
		trim(client.Name)
		trim(client.Company)
		trim(client.Testimonial)
	}
	if timeline != nil {
		trim(timeline.Duration)
	}
	if seo != nil {
		trim(seo.MetaTitle)
		trim(seo.MetaDescription)
		if seo.Slug != nil {
			s := strings.ToLower(strings.TrimSpace(*seo.Slug))
			seo.Slug = &s
		}
	}
}

// UpdateProjectRequest is a partial update: nil fields are left untouched.
type UpdateProjectRequest struct {
	Title           *string        `json:"title" binding:"omitempty,min=2,max=100"`
	Description     *string        `json:"description" binding:"omitempty,min=10,max=500"`
	FullDescription *string        `json:"fullDescription" binding:"omitempty,max=2000"`
	Technologies    []string       `json:"technologies" binding:"omitempty,max=10,dive,min=1,max=30"`
	Category        *string        `json:"category" binding:"omitempty,category"`
	Status          *string        `json:"status" binding:"omitempty,projectstatus"`
	Featured        *bool          `json:"featured"`
	Images          *ImagesInput   `json:"images"`
	Links           *LinksInput    `json:"links"`
	Client          *ClientInput   `json:"client"`
	Timeline        *TimelineInput `json:"timeline"`
	SEO             *SEOInput      `json:"seo"`
}

func (r *UpdateProjectRequest) Normalize() {
	trim(r.Title)
	trim(r.Description)
	trim(r.FullDescription)
	trim(r.Category)
	trim(r.Status)
	for i := range r.Technologies {
		trim(&r.Technologies[i])
	}
	normalizeNested(r.Images, r.Links, r.Client, r.Timeline, r.SEO)
}

type ProjectResponse struct {
	ID              string                     `json:"id"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description"`
	FullDescription *string                    `json:"fullDescription,omitempty"`
	Technologies    []string                   `json:"technologies"`
	Category        string                     `json:"category"`
	Status          string                     `json:"status"`
	Featured        bool                       `json:"featured"`
	Images          repository.ProjectImages   `json:"images"`
	Links           repository.ProjectLinks    `json:"links"`
	Client          repository.ProjectClient   `json:"client"`
	Timeline        repository.ProjectTimeline `json:"timeline"`
	Metrics         repository.ProjectMetrics  `json:"metrics"`
	SEO             repository.ProjectSEO      `json:"seo"`
	CreatedBy       *string                    `json:"createdBy,omitempty"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

func NewProjectResponse(p *repository.Project) *ProjectResponse {
	gallery := p.Images.Gallery
	if gallery == nil {
		gallery = []repository.GalleryImage{}
	}
	technologies := p.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return &ProjectResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		FullDescription: p.FullDescription,
		Technologies:    technologies,
		Category:        p.Category,
		Status:          p.Status,
		Featured:        p.Featured,
		Images:          repository.ProjectImages{Thumbnail: p.Images.Thumbnail, Gallery: gallery},
		Links:           p.Links,
		Client:          p.Client,
		Timeline:        p.Timeline,
		Metrics:         p.Metrics,
		SEO:             p.SEO,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProjectResponses(projects []*repository.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}
	return out
}

// ============================================
// Contact DTOs
// ============================================

type ContactRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=50,personname"`
	Email       string  `json:"email" binding:"required,email,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,phone"`
	Company     *string `json:"company" binding:"omitempty,max=100"`
	Subject     string  `json:"subject" binding:"required,min=3,max=200"`
	Message     string  `json:"message" binding:"required,min=10,max=1000"`
	ProjectType *string `json:"projectType" binding:"omitempty,projecttype"`
	Budget      string  `json:"budget" binding:"omitempty,budget"`
	Timeline    string  `json:"timeline" binding:"omitempty,timeline"`
	Source      string  `json:"source" binding:"omitempty,source"`
	Priority    string  `json:"priority" binding:"omitempty,priority"`
	UTMSource   string  `json:"utmSource" binding:"max=100"`
	UTMMedium   string  `json:"utmMedium" binding:"max=100"`
	UTMCampaign string  `json:"utmCampaign" binding:"max=100"`
}

func (r *ContactRequest) Normalize() {
	trim(&r.Name)
	lowerEmail(&r.Email)
	trim(r.Phone)
	trim(r.Company)
	trim(&r.Subject)
	trim(&r.Message)
	trim(r.ProjectType)
	trim(&r.Budget)
	trim(&r.Timeline)
	trim(&r.Source)
	trim(&r.Priority)
	trim(&r.UTMSource)
	trim(&r.UTMMedium)
	trim(&r.UTMCampaign)
	if r.Phone != nil && *r.Phone == "" {
		r.Phone = nil
	}
	if r.Company != nil && *r.Company == "" {
		r.Company = nil
	}
	if r.ProjectType != nil && *r.ProjectType == "" {
		r.ProjectType = nil
	}
}

// ContactStatusRequest updates status and/or priority, optionally recording
// an internal note.
type ContactStatusRequest struct {
	Status   *string `json:"status" binding:"omitempty,contactstatus"`
	Priority *string `json:"priority" binding:"omitempty,priority"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

func (r *ContactStatusRequest) Normalize() {
	trim(r.Status)
	trim(r.Priority)
	trim(r.Notes)
}

type NoteRequest struct {
	Note string `json:"note" binding:"required,max=1000"`
	Type string `json:"type"`
}

func (r *NoteRequest) Normalize() {
	trim(&r.Note)
	trim(&r.Type)
}

type FollowUpRequest struct {
	Scheduled *time.Time `json:"scheduled" binding:"required"`
}

type ContactResponse struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Email       string                     `json:"email"`
	Phone       *string                    `json:"phone,omitempty"`
	Company     *string                    `json:"company,omitempty"`
	Subject     string                     `json:"subject"`
	Message     string                     `json:"message"`
	ProjectType *string                    `json:"projectType,omitempty"`
	Budget      string                     `json:"budget"`
	Timeline    string                     `json:"timeline"`
	Status      string                     `json:"status"`
	Priority    string                     `json:"priority"`
	Source      string                     `json:"source"`
	Metadata    repository.ContactMetadata `json:"metadata"`
	Notes       repository.ContactNotes    `json:"notes"`
	FollowUp    repository.FollowUp        `json:"followUp"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

func NewContactResponse(c *repository.Contact) *ContactResponse {
	notes := repository.ContactNotes{Internal: c.Notes.Internal, Client: c.Notes.Client}
	if notes.Internal == nil {
		notes.Internal = []repository.Note{}
	}
	if notes.Client == nil {
		notes.Client = []repository.Note{}
	}
	return &ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Subject:     c.Subject,
		Message:     c.Message,
		ProjectType: c.ProjectType,
		Budget:      c.Budget,
		Timeline:    c.Timeline,
		Status:      c.Status,
		Priority:    c.Priority,
		Source:      c.Source,
		Metadata:    c.Metadata,
		Notes:       notes,
		FollowUp:    c.FollowUp,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewContactResponses(contacts []*repository.Contact) []*ContactResponse {
	out := make([]*ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, NewContactResponse(c))
	}
	return out
}

// ============================================
// Statistics DTOs
// ============================================

type GroupStat struct {
	Key        string `json:"key"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"`
}

type ProjectStats struct {
	Total      int64                     `json:"total"`
	ByStatus   []GroupStat               `json:"byStatus"`
	ByCategory []GroupStat               `json:"byCategory"`
	Metrics    repository.ProjectMetrics `json:"metrics"`
	Last30Days int64                     `json:"last30Days"`
	ThisMonth  int64                     `json:"thisMonth"`
}

type ContactStats struct {
	Total         int64       `json:"total"`
	ByStatus      []GroupStat `json:"byStatus"`
	ByPriority    []GroupStat `json:"byPriority"`
	ByProjectType []GroupStat `json:"byProjectType"`
	ByBudget      []GroupStat `json:"byBudget"`
	ByTimeline    []GroupStat `json:"byTimeline"`
	BySource      []GroupStat `json:"bySource"`
	Last30Days    int64       `json:"last30Days"`
	ThisMonth     int64       `json:"thisMonth"`
}
