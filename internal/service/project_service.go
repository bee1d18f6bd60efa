package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/types"
)

const (
	featuredCacheKey = "projects:featured"
	projectCacheKeys = "projects:*"
	featuredCacheTTL = 5 * time.Minute
)

// ============================================
// Project Service
// ============================================

type ProjectService interface {
	// List returns published projects only unless includeUnpublished is set.
	List(ctx context.Context, q *models.ProjectListQuery, includeUnpublished bool) ([]*repository.Project, models.Pagination, error)
	Featured(ctx context.Context) ([]*repository.Project, error)
	ByCategory(ctx context.Context, category string, q *models.ProjectListQuery) ([]*repository.Project, models.Pagination, error)
	ByTechnology(ctx context.Context, technology string, q *models.ProjectListQuery) ([]*repository.Project, models.Pagination, error)
	// Get looks a project up by id, then by slug, and counts the view.
	Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*repository.Project, error)
	Create(ctx context.Context, req *models.CreateProjectRequest, createdBy string) (*repository.Project, error)
	Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*repository.Project, error)
	SetStatus(ctx context.Context, id, status string) (*repository.Project, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, id string) (int64, error)
	Stats(ctx context.Context) (*models.ProjectStats, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	cache       Cache
	log         *zap.Logger
	now         func() time.Time
}

func NewProjectService(projectRepo repository.ProjectRepository, cache Cache, log *zap.Logger, now func() time.Time) ProjectService {
	return &projectService{projectRepo: projectRepo, cache: cache, log: log, now: now}
}

func (s *projectService) list(ctx context.Context, filter repository.ProjectFilter, q *models.ProjectListQuery) ([]*repository.Project, models.Pagination, error) {
	page, p, l, err := pageFor(q.Page, q.Limit, models.DefaultLimit, q.Sort, repository.ProjectSortFields)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	projects, err := s.projectRepo.List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return projects, models.NewPagination(p, l, total), nil
}

func (s *projectService) List(ctx context.Context, q *models.ProjectListQuery, includeUnpublished bool) ([]*repository.Project, models.Pagination, error) {
	filter := repository.ProjectFilter{
		Category: q.Category,
		Status:   types.ProjectPublished,
		Featured: q.Featured,
	}
	if includeUnpublished {
		filter.Status = q.Status
	}
	return s.list(ctx, filter, q)
}

func (s *projectService) Featured(ctx context.Context) ([]*repository.Project, error) {
	var projects []*repository.Project
	if s.cache != nil {
		if err := s.cache.GetCache(ctx, featuredCacheKey, &projects); err == nil {
			return projects, nil
		}
	}

	featured := true
	projects, err := s.projectRepo.List(ctx,
		repository.ProjectFilter{Status: types.ProjectPublished, Featured: &featured},
		repository.Page{Limit: models.FeaturedLimit, Sort: []repository.SortField{{Field: "createdAt", Desc: true}}},
	)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, featuredCacheKey, projects, featuredCacheTTL); err != nil {
			s.log.Warn("failed to cache featured projects", zap.Error(err))
		}
	}
	return projects, nil
}

func (s *projectService) ByCategory(ctx context.Context, category string, q *models.ProjectListQuery) ([]*repository.Project, models.Pagination, error) {
	if !types.IsValid(category, types.ValidProjectCategories) {
		return nil, models.Pagination{}, apperror.Validation(apperror.FieldError{
			Field:   "category",
			Message: "Invalid project category",
			Value:   category,
		})
	}
	return s.list(ctx, repository.ProjectFilter{Category: category, Status: types.ProjectPublished}, q)
}

func (s *projectService) ByTechnology(ctx context.Context, technology string, q *models.ProjectListQuery) ([]*repository.Project, models.Pagination, error) {
	return s.list(ctx, repository.ProjectFilter{Technology: technology, Status: types.ProjectPublished}, q)
}

func (s *projectService) find(ctx context.Context, idOrSlug string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, idOrSlug)
	if errors.Is(err, repository.ErrInvalidID) || errors.Is(err, repository.ErrNotFound) {
		project, err = s.projectRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, idOrSlug string, includeUnpublished bool) (*repository.Project, error) {
	project, err := s.find(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !includeUnpublished && project.Status != types.ProjectPublished {
		return nil, apperror.NotFound("Project not found")
	}

	views, err := s.projectRepo.IncrementViews(ctx, project.ID)
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	project.Metrics.Views = views
	return project, nil
}

func (s *projectService) Create(ctx context.Context, req *models.CreateProjectRequest, createdBy string) (*repository.Project, error) {
	project := &repository.Project{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Technologies:    req.Technologies,
		Category:        req.Category,
		Status:          types.ProjectDraft,
		Images:          repository.ProjectImages{Gallery: []repository.GalleryImage{}},
	}
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}
	if createdBy != "" {
		project.CreatedBy = &createdBy
	}
	applyNested(project, req.Images, req.Links, req.Client, req.Timeline, req.SEO)

	if project.SEO.Slug == nil || *project.SEO.Slug == "" {
		project.SEO.Slug = nil
		if slug := Slugify(project.Title); slug != "" {
			project.SEO.Slug = &slug
		}
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, slugConflict(err)
	}
	s.invalidate(ctx)
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Project not found")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.FullDescription != nil {
		project.FullDescription = req.FullDescription
	}
	if req.Technologies != nil {
		project.Technologies = req.Technologies
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}
	applyNested(project, req.Images, req.Links, req.Client, req.Timeline, req.SEO)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, slugConflict(notFound(err, "Project not found"))
	}
	s.invalidate(ctx)
	return project, nil
}

func (s *projectService) SetStatus(ctx context.Context, id, status string) (*repository.Project, error) {
	return s.Update(ctx, id, &models.UpdateProjectRequest{Status: &status})
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Project not found")
	}
	s.invalidate(ctx)
	return nil
}

func (s *projectService) Like(ctx context.Context, id string) (int64, error) {
	likes, err := s.projectRepo.IncrementLikes(ctx, id)
	if err != nil {
		return 0, notFound(err, "Project not found")
	}
	return likes, nil
}

func (s *projectService) Stats(ctx context.Context) (*models.ProjectStats, error) {
	total, err := s.projectRepo.Count(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	byStatus, err := s.projectRepo.CountBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	byCategory, err := s.projectRepo.CountBy(ctx, "category")
	if err != nil {
		return nil, err
	}
	metrics, err := s.projectRepo.SumMetrics(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	last30, err := s.projectRepo.CountSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.projectRepo.CountSince(ctx, startOfMonth(now))
	if err != nil {
		return nil, err
	}

	return &models.ProjectStats{
		Total:      total,
		ByStatus:   groupStats(byStatus, total),
		ByCategory: groupStats(byCategory, total),
		Metrics:    metrics,
		Last30Days: last30,
		ThisMonth:  thisMonth,
	}, nil
}

func (s *projectService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, projectCacheKeys); err != nil {
		s.log.Warn("failed to invalidate project cache", zap.Error(err))
	}
}

func slugConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return apperror.Wrap(err, apperror.KindConflict, "A project with this slug already exists")
	}
	return err
}

// applyNested merges the optional nested inputs of a create or update
// request. Within a provided object, nil fields are left untouched.
func applyNested(p *repository.Project, images *models.ImagesInput, links *models.LinksInput, client *models.ClientInput, timeline *models.TimelineInput, seo *models.SEOInput) {
	if images != nil {
		if images.Thumbnail != nil {
			p.Images.Thumbnail = images.Thumbnail
		}
		if images.Gallery != nil {
			gallery := make([]repository.GalleryImage, 0, len(images.Gallery))
			for _, g := range images.Gallery {
				gallery = append(gallery, repository.GalleryImage{URL: g.URL, Alt: g.Alt, Caption: g.Caption})
			}
			p.Images.Gallery = gallery
		}
	}
	if links != nil {
		p.Links.Live = pick(links.Live, p.Links.Live)
		p.Links.GitHub = pick(links.GitHub, p.Links.GitHub)
		p.Links.Behance = pick(links.Behance, p.Links.Behance)
	}
	if client != nil {
		p.Client.Name = pick(client.Name, p.Client.Name)
		p.Client.Company = pick(client.Company, p.Client.Company)
		p.Client.Testimonial = pick(client.Testimonial, p.Client.Testimonial)
	}
	if timeline != nil {
		if timeline.StartDate != nil {
			p.Timeline.StartDate = timeline.StartDate
		}
		if timeline.EndDate != nil {
			p.Timeline.EndDate = timeline.EndDate
		}
		p.Timeline.Duration = pick(timeline.Duration, p.Timeline.Duration)
	}
	if seo != nil {
		p.SEO.MetaTitle = pick(seo.MetaTitle, p.SEO.MetaTitle)
		p.SEO.MetaDescription = pick(seo.MetaDescription, p.SEO.MetaDescription)
		if seo.Slug != nil && *seo.Slug != "" {
			p.SEO.Slug = seo.Slug
		}
	}
}

func pick(v, current *string) *string {
	if v != nil {
		return v
	}
	return current
}
