package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &pgContactRepository{pool: pool}
}

const contactColumns = `
	id, name, email, phone, company, subject, message, project_type, budget, timeline,
	status, priority, source, metadata, internal_notes, client_notes,
	follow_up_scheduled, follow_up_completed, follow_up_completed_at, created_at, updated_at`

var contactSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"priority":  "priority",
}

var contactGroupColumns = map[string]string{
	"status":      "status",
	"priority":    "priority",
	"projectType": "project_type",
	"budget":      "budget",
	"timeline":    "timeline",
	"source":      "source",
}

func scanContact(row pgx.Row) (*Contact, error) {
	c := &Contact{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Subject, &c.Message,
		&c.ProjectType, &c.Budget, &c.Timeline, &c.Status, &c.Priority, &c.Source,
		&c.Metadata, &c.Notes.Internal, &c.Notes.Client,
		&c.FollowUp.Scheduled, &c.FollowUp.Completed, &c.FollowUp.CompletedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	if c.Notes.Internal == nil {
		c.Notes.Internal = []Note{}
	}
	if c.Notes.Client == nil {
		c.Notes.Client = []Note{}
	}
	return c, nil
}

func contactWhere(filter ContactFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		w.add("priority = ?", filter.Priority)
	}
	if filter.ProjectType != "" {
		w.add("project_type = ?", filter.ProjectType)
	}
	if filter.Source != "" {
		w.add("source = ?", filter.Source)
	}
	return w
}

func notesOrEmpty(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	return notes
}

func (r *pgContactRepository) Create(ctx context.Context, contact *Contact) error {
	query := `
		INSERT INTO contacts (
			name, email, phone, company, subject, message, project_type, budget, timeline,
			status, priority, source, metadata, internal_notes, client_notes,
			follow_up_scheduled, follow_up_completed, follow_up_completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Company, contact.Subject, contact.Message,
		contact.ProjectType, contact.Budget, contact.Timeline,
		contact.Status, contact.Priority, contact.Source, contact.Metadata,
		notesOrEmpty(contact.Notes.Internal), notesOrEmpty(contact.Notes.Client),
		contact.FollowUp.Scheduled, contact.FollowUp.Completed, contact.FollowUp.CompletedAt,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	return mapPgError(err)
}

func (r *pgContactRepository) FindByID(ctx context.Context, id string) (*Contact, error) {
	if !validUUID(id) {
		return nil, ErrInvalidID
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return scanContact(r.pool.QueryRow(ctx, query, id))
}

func (r *pgContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]*Contact, error) {
	w := contactWhere(filter)
	query := `SELECT ` + contactColumns + ` FROM contacts` + w.String() +
		orderBy(page.Sort, contactSortColumns, "created_at DESC") +
		` LIMIT ` + w.next(1) + ` OFFSET ` + w.next(2)
	args := append(w.args, limitArg(page.Limit), page.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *pgContactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	w := contactWhere(filter)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+w.String(), w.args...).Scan(&n)
	return n, err
}

// Update rewrites the mutable fields of a contact. Submission metadata is
// fixed at creation.
func (r *pgContactRepository) Update(ctx context.Context, contact *Contact) error {
	if !validUUID(contact.ID) {
		return ErrInvalidID
	}
	query := `
		UPDATE contacts SET
			name = $2, email = $3, phone = $4, company = $5, subject = $6, message = $7,
			project_type = $8, budget = $9, timeline = $10, status = $11, priority = $12, source = $13,
			internal_notes = $14, client_notes = $15,
			follow_up_scheduled = $16, follow_up_completed = $17, follow_up_completed_at = $18,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company, contact.Subject, contact.Message,
		contact.ProjectType, contact.Budget, contact.Timeline, contact.Status, contact.Priority, contact.Source,
		notesOrEmpty(contact.Notes.Internal), notesOrEmpty(contact.Notes.Client),
		contact.FollowUp.Scheduled, contact.FollowUp.Completed, contact.FollowUp.CompletedAt,
	).Scan(&contact.UpdatedAt)
	return mapPgError(err)
}

func (r *pgContactRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrInvalidID
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgContactRepository) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	column, ok := contactGroupColumns[field]
	if !ok {
		return nil, ErrConstraint
	}
	return countGroups(ctx, r.pool, "contacts", column)
}

func (r *pgContactRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *pgContactRepository) FindOverdueFollowUps(ctx context.Context, now time.Time) ([]*Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE follow_up_scheduled IS NOT NULL AND follow_up_scheduled < $1 AND NOT follow_up_completed
		ORDER BY follow_up_scheduled`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
