package models

import "strings"

// Default page sizes.
const (
	DefaultLimit        = 10
	DefaultContactLimit = 20
	FeaturedLimit       = 6

	// MaxPage bounds the page number so the skip offset cannot overflow.
	MaxPage = 100000
)

// Window resolves page/limit defaults and returns the skip offset.
func Window(pagePtr, limitPtr *int, defaultLimit int) (page, limit, skip int) {
	page, limit = 1, defaultLimit
	if pagePtr != nil && *pagePtr > 0 {
		page = min(*pagePtr, MaxPage)
	}
	if limitPtr != nil && *limitPtr > 0 {
		limit = *limitPtr
	}
	return page, limit, (page - 1) * limit
}

type UserListQuery struct {
	Page  *int   `form:"page" json:"page" binding:"omitempty,min=1,max=100000"`
	Limit *int   `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Sort  string `form:"sort" json:"sort"`
}

func (q *UserListQuery) Normalize() {
	q.Sort = strings.TrimSpace(q.Sort)
}

type ProjectListQuery struct {
	Page     *int   `form:"page" json:"page" binding:"omitempty,min=1,max=100000"`
	Limit    *int   `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" json:"sort"`
	Category string `form:"category" json:"category" binding:"omitempty,category"`
	Status   string `form:"status" json:"status" binding:"omitempty,projectstatus"`
	Featured *bool  `form:"featured" json:"featured"`
}

func (q *ProjectListQuery) Normalize() {
	q.Sort = strings.TrimSpace(q.Sort)
	q.Category = strings.TrimSpace(q.Category)
	q.Status = strings.TrimSpace(q.Status)
}

type ContactListQuery struct {
	Page        *int   `form:"page" json:"page" binding:"omitempty,min=1,max=100000"`
	Limit       *int   `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
	Sort        string `form:"sort" json:"sort"`
	Status      string `form:"status" json:"status" binding:"omitempty,contactstatus"`
	Priority    string `form:"priority" json:"priority" binding:"omitempty,priority"`
	ProjectType string `form:"projectType" json:"projectType" binding:"omitempty,projecttype"`
	Source      string `form:"source" json:"source" binding:"omitempty,source"`
}

func (q *ContactListQuery) Normalize() {
	q.Sort = strings.TrimSpace(q.Sort)
	q.Status = strings.TrimSpace(q.Status)
	q.Priority = strings.TrimSpace(q.Priority)
	q.ProjectType = strings.TrimSpace(q.ProjectType)
	q.Source = strings.TrimSpace(q.Source)
}
