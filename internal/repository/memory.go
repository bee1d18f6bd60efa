package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixelcraft/agency-api/internal/types"
)

// ============================================
// In-Memory Repository Implementations
// ============================================

// NewMemoryRepositories creates in-memory repositories (for tests and the
// "memory" database driver). Entities are copied on the way in and out so
// callers get the same read-modify-write semantics as a real store.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		UserRepo:    newInMemoryUserRepository(),
		ProjectRepo: newInMemoryProjectRepository(),
		ContactRepo: newInMemoryContactRepository(),
		Health:      memoryHealth{},
	}
}

type memoryHealth struct{}

func (memoryHealth) Ping(context.Context) error { return nil }

func validMemoryID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sortByFields[T any](items []T, fields []SortField, defaultField string, compare func(a, b T, field string) int) {
	if len(fields) == 0 {
		fields = []SortField{{Field: defaultField, Desc: true}}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, f := range fields {
			c := compare(a, b, f.Field)
			if f.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func window[T any](items []T, page Page) []T {
	if page.Skip < 0 || page.Skip >= len(items) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func groupCounts(keys []string) []GroupCount {
	counts := map[string]int64{}
	for _, k := range keys {
		if k == "" {
			k = UnspecifiedKey
		}
		counts[k]++
	}
	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, GroupCount{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b GroupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ============================================
// In-memory User Repository
// ============================================

type inMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func newInMemoryUserRepository() *inMemoryUserRepository {
	return &inMemoryUserRepository{users: make(map[string]*User)}
}

func cloneUser(u *User) *User {
	c := *u
	if u.Avatar != nil {
		a := *u.Avatar
		c.Avatar = &a
	}
	return &c
}

func (r *inMemoryUserRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateKey
		}
	}
	now := time.Now()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *inMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if !validMemoryID(id) {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.users[id]; ok {
		return cloneUser(user), nil
	}
	return nil, ErrNotFound
}

func (r *inMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, ErrNotFound
}

func (r *inMemoryUserRepository) List(ctx context.Context, page Page) ([]*User, error) {
	r.mu.RLock()
	users := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	r.mu.RUnlock()

	sortByFields(users, page.Sort, "createdAt", func(a, b *User, field string) int {
		switch field {
		case "name":
			return cmp.Compare(a.Name, b.Name)
		case "email":
			return cmp.Compare(a.Email, b.Email)
		case "role":
			return cmp.Compare(a.Role, b.Role)
		case "updatedAt":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	})
	return window(users, page), nil
}

func (r *inMemoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *inMemoryUserRepository) Update(ctx context.Context, user *User) error {
	if !validMemoryID(user.ID) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateKey
		}
	}
	user.Password = existing.Password
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *inMemoryUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	if !validMemoryID(id) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Password = hash
	user.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryUserRepository) Delete(ctx context.Context, id string) error {
	if !validMemoryID(id) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// ============================================
// In-memory Project Repository
// ============================================

type inMemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
}

func newInMemoryProjectRepository() *inMemoryProjectRepository {
	return &inMemoryProjectRepository{projects: make(map[string]*Project)}
}

func cloneProject(p *Project) *Project {
	c := *p
	c.Technologies = slices.Clone(p.Technologies)
	c.Images.Gallery = slices.Clone(p.Images.Gallery)
	return &c
}

func (r *inMemoryProjectRepository) slugTaken(slug *string, exceptID string) bool {
	if slug == nil {
		return false
	}
	for id, p := range r.projects {
		if id != exceptID && p.SEO.Slug != nil && *p.SEO.Slug == *slug {
			return true
		}
	}
	return false
}

func (r *inMemoryProjectRepository) Create(ctx context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(project.SEO.Slug, "") {
		return ErrDuplicateKey
	}
	now := time.Now()
	project.ID = uuid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *inMemoryProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	if !validMemoryID(id) {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, ErrNotFound
}

func (r *inMemoryProjectRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.SEO.Slug != nil && *p.SEO.Slug == slug {
			return cloneProject(p), nil
		}
	}
	return nil, ErrNotFound
}

func (f ProjectFilter) matches(p *Project) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Technology != "" && !slices.ContainsFunc(p.Technologies, func(t string) bool {
		return strings.EqualFold(t, f.Technology)
	}) {
		return false
	}
	return true
}

func (r *inMemoryProjectRepository) filtered(filter ProjectFilter) []*Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Project
	for _, p := range r.projects {
		if filter.matches(p) {
			out = append(out, cloneProject(p))
		}
	}
	return out
}

func (r *inMemoryProjectRepository) List(ctx context.Context, filter ProjectFilter, page Page) ([]*Project, error) {
	projects := r.filtered(filter)
	sortByFields(projects, page.Sort, "createdAt", func(a, b *Project, field string) int {
		switch field {
		case "title":
			return cmp.Compare(a.Title, b.Title)
		case "category":
			return cmp.Compare(a.Category, b.Category)
		case "status":
			return cmp.Compare(a.Status, b.Status)
		case "featured":
			return compareBool(a.Featured, b.Featured)
		case "views":
			return cmp.Compare(a.Metrics.Views, b.Metrics.Views)
		case "likes":
			return cmp.Compare(a.Metrics.Likes, b.Metrics.Likes)
		case "updatedAt":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	})
	return window(projects, page), nil
}

func (r *inMemoryProjectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

func (r *inMemoryProjectRepository) Update(ctx context.Context, project *Project) error {
	if !validMemoryID(project.ID) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok {
		return ErrNotFound
	}
	if r.slugTaken(project.SEO.Slug, project.ID) {
		return ErrDuplicateKey
	}
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = time.Now()
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *inMemoryProjectRepository) Delete(ctx context.Context, id string) error {
	if !validMemoryID(id) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *inMemoryProjectRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	if !validMemoryID(id) {
		return 0, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.Metrics.Views++
	return p.Metrics.Views, nil
}

func (r *inMemoryProjectRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	if !validMemoryID(id) {
		return 0, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok || p.Status != types.ProjectPublished {
		return 0, ErrNotFound
	}
	p.Metrics.Likes++
	return p.Metrics.Likes, nil
}

func (r *inMemoryProjectRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.projects))
	for _, p := range r.projects {
		switch field {
		case "status":
			keys = append(keys, p.Status)
		case "category":
			keys = append(keys, p.Category)
		default:
			return nil, ErrConstraint
		}
	}
	return groupCounts(keys), nil
}

func (r *inMemoryProjectRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.projects {
		if !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *inMemoryProjectRepository) SumMetrics(ctx context.Context) (ProjectMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var m ProjectMetrics
	for _, p := range r.projects {
		m.Views += p.Metrics.Views
		m.Likes += p.Metrics.Likes
	}
	return m, nil
}

// ============================================
// In-memory Contact Repository
// ============================================

type inMemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]*Contact
}

func newInMemoryContactRepository() *inMemoryContactRepository {
	return &inMemoryContactRepository{contacts: make(map[string]*Contact)}
}

func cloneContact(c *Contact) *Contact {
	out := *c
	out.Notes.Internal = slices.Clone(c.Notes.Internal)
	out.Notes.Client = slices.Clone(c.Notes.Client)
	return &out
}

func (r *inMemoryContactRepository) Create(ctx context.Context, contact *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	contact.ID = uuid.New().String()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	r.contacts[contact.ID] = cloneContact(contact)
	return nil
}

func (r *inMemoryContactRepository) FindByID(ctx context.Context, id string) (*Contact, error) {
	if !validMemoryID(id) {
		return nil, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.contacts[id]; ok {
		return cloneContact(c), nil
	}
	return nil, ErrNotFound
}

func (f ContactFilter) matches(c *Contact) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.ProjectType != "" && deref(c.ProjectType) != f.ProjectType {
		return false
	}
	if f.Source != "" && c.Source != f.Source {
		return false
	}
	return true
}

func (r *inMemoryContactRepository) filtered(filter ContactFilter) []*Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Contact
	for _, c := range r.contacts {
		if filter.matches(c) {
			out = append(out, cloneContact(c))
		}
	}
	return out
}

func (r *inMemoryContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]*Contact, error) {
	contacts := r.filtered(filter)
	sortByFields(contacts, page.Sort, "createdAt", func(a, b *Contact, field string) int {
		switch field {
		case "name":
			return cmp.Compare(a.Name, b.Name)
		case "email":
			return cmp.Compare(a.Email, b.Email)
		case "status":
			return cmp.Compare(a.Status, b.Status)
		case "priority":
			return cmp.Compare(a.Priority, b.Priority)
		case "updatedAt":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	})
	return window(contacts, page), nil
}

func (r *inMemoryContactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

func (r *inMemoryContactRepository) Update(ctx context.Context, contact *Contact) error {
	if !validMemoryID(contact.ID) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contacts[contact.ID]
	if !ok {
		return ErrNotFound
	}
	contact.CreatedAt = existing.CreatedAt
	contact.Metadata = existing.Metadata
	contact.UpdatedAt = time.Now()
	r.contacts[contact.ID] = cloneContact(contact)
	return nil
}

func (r *inMemoryContactRepository) Delete(ctx context.Context, id string) error {
	if !validMemoryID(id) {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *inMemoryContactRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.contacts))
	for _, c := range r.contacts {
		switch field {
		case "status":
			keys = append(keys, c.Status)
		case "priority":
			keys = append(keys, c.Priority)
		case "projectType":
			keys = append(keys, deref(c.ProjectType))
		case "budget":
			keys = append(keys, c.Budget)
		case "timeline":
			keys = append(keys, c.Timeline)
		case "source":
			keys = append(keys, c.Source)
		default:
			return nil, ErrConstraint
		}
	}
	return groupCounts(keys), nil
}

func (r *inMemoryContactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, c := range r.contacts {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *inMemoryContactRepository) FindOverdueFollowUps(ctx context.Context, now time.Time) ([]*Contact, error) {
	r.mu.RLock()
	var out []*Contact
	for _, c := range r.contacts {
		if c.FollowUp.Scheduled != nil && !c.FollowUp.Completed && c.FollowUp.Scheduled.Before(now) {
			out = append(out, cloneContact(c))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Contact) int {
		return a.FollowUp.Scheduled.Compare(*b.FollowUp.Scheduled)
	})
	return out, nil
}
