package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelcraft/agency-api/internal/types"
)

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `
	id, title, description, full_description, technologies, category, status, featured,
	images, links, client, timeline, views, likes, meta_title, meta_description, slug,
	created_by, created_at, updated_at`

var projectSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"category":  "category",
	"status":    "status",
	"featured":  "featured",
	"views":     "views",
	"likes":     "likes",
}

var projectGroupColumns = map[string]string{
	"status":   "status",
	"category": "category",
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.FullDescription, &p.Technologies,
		&p.Category, &p.Status, &p.Featured,
		&p.Images, &p.Links, &p.Client, &p.Timeline,
		&p.Metrics.Views, &p.Metrics.Likes,
		&p.SEO.MetaTitle, &p.SEO.MetaDescription, &p.SEO.Slug,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}

func projectWhere(filter ProjectFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Featured != nil {
		w.add("featured = ?", *filter.Featured)
	}
	if filter.Technology != "" {
		w.add("EXISTS (SELECT 1 FROM unnest(technologies) t WHERE LOWER(t) = LOWER(?))", filter.Technology)
	}
	return w
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (
			title, description, full_description, technologies, category, status, featured,
			images, links, client, timeline, views, likes, meta_title, meta_description, slug, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		project.Title, project.Description, project.FullDescription, project.Technologies,
		project.Category, project.Status, project.Featured,
		project.Images, project.Links, project.Client, project.Timeline,
		project.Metrics.Views, project.Metrics.Likes,
		project.SEO.MetaTitle, project.SEO.MetaDescription, project.SEO.Slug, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	return mapPgError(err)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	if !validUUID(id) {
		return nil, ErrInvalidID
	}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *pgProjectRepository) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1`
	return scanProject(r.pool.QueryRow(ctx, query, slug))
}

func (r *pgProjectRepository) List(ctx context.Context, filter ProjectFilter, page Page) ([]*Project, error) {
	w := projectWhere(filter)
	query := `SELECT ` + projectColumns + ` FROM projects` + w.String() +
		orderBy(page.Sort, projectSortColumns, "created_at DESC") +
		` LIMIT ` + w.next(1) + ` OFFSET ` + w.next(2)
	args := append(w.args, limitArg(page.Limit), page.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	w := projectWhere(filter)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+w.String(), w.args...).Scan(&n)
	return n, err
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	if !validUUID(project.ID) {
		return ErrInvalidID
	}
	query := `
		UPDATE projects SET
			title = $2, description = $3, full_description = $4, technologies = $5,
			category = $6, status = $7, featured = $8,
			images = $9, links = $10, client = $11, timeline = $12,
			meta_title = $13, meta_description = $14, slug = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		project.ID, project.Title, project.Description, project.FullDescription, project.Technologies,
		project.Category, project.Status, project.Featured,
		project.Images, project.Links, project.Client, project.Timeline,
		project.SEO.MetaTitle, project.SEO.MetaDescription, project.SEO.Slug,
	).Scan(&project.UpdatedAt)
	return mapPgError(err)
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrInvalidID
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgProjectRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	if !validUUID(id) {
		return 0, ErrInvalidID
	}
	var views int64
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET views = views + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views)
	return views, mapPgError(err)
}

func (r *pgProjectRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	if !validUUID(id) {
		return 0, ErrInvalidID
	}
	var likes int64
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET likes = likes + 1 WHERE id = $1 AND status = $2 RETURNING likes`,
		id, types.ProjectPublished,
	).Scan(&likes)
	return likes, mapPgError(err)
}

func (r *pgProjectRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	column, ok := projectGroupColumns[field]
	if !ok {
		return nil, ErrConstraint
	}
	return countGroups(ctx, r.pool, "projects", column)
}

func (r *pgProjectRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *pgProjectRepository) SumMetrics(ctx context.Context) (ProjectMetrics, error) {
	var m ProjectMetrics
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(views), 0), COALESCE(SUM(likes), 0) FROM projects`,
	).Scan(&m.Views, &m.Likes)
	return m, err
}
