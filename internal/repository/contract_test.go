package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/types"
)

// newReposFunc returns an empty set of repositories for one test.
type newReposFunc func(t *testing.T) *repository.Repositories

func strPtr(s string) *string { return &s }

// runRepositoryContract checks the behavior every storage driver must share.
func runRepositoryContract(t *testing.T, newRepos newReposFunc) {
	t.Run("Users", func(t *testing.T) { testUserRepository(t, newRepos(t).UserRepo) })
	t.Run("Projects", func(t *testing.T) { testProjectRepository(t, newRepos(t).ProjectRepo) })
	t.Run("Contacts", func(t *testing.T) { testContactRepository(t, newRepos(t).ContactRepo) })
	t.Run("Health", func(t *testing.T) {
		require.NoError(t, newRepos(t).Health.Ping(context.Background()))
	})
}

func testUserRepository(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()

	newUser := func(name, email string) *repository.User {
		u := &repository.User{Name: name, Email: email, Password: "hash-" + name, Role: types.RoleUser}
		require.NoError(t, repo.Create(ctx, u))
		return u
	}

	alice := newUser("Alice", "alice@example.com")
	newUser("Carol", "carol@example.com")
	newUser("Bob", "bob@example.com")

	require.NotEmpty(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	err := repo.Create(ctx, &repository.User{Name: "Dup", Email: "ALICE@example.com", Password: "x", Role: types.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	found, err := repo.FindByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "hash-Alice", found.Password)

	_, err = repo.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	users, err := repo.List(ctx, repository.Page{Limit: 2, Sort: []repository.SortField{{Field: "email"}}})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)

	users, err = repo.List(ctx, repository.Page{Skip: 2, Limit: 2, Sort: []repository.SortField{{Field: "email"}}})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol@example.com", users[0].Email)

	// Update never touches the password hash.
	found.Name = "Alice Smith"
	found.Role = types.RoleAdmin
	found.Password = "overwritten"
	require.NoError(t, repo.Update(ctx, found))

	got, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, types.RoleAdmin, got.Role)
	assert.Equal(t, "hash-Alice", got.Password)

	got.Email = "bob@example.com"
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrDuplicateKey)

	require.NoError(t, repo.UpdatePassword(ctx, alice.ID, "new-hash"))
	got, err = repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	_, err = repo.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), repository.ErrNotFound)
}

func testProjectRepository(t *testing.T, repo repository.ProjectRepository) {
	ctx := context.Background()

	newProject := func(title, category, status string, tech ...string) *repository.Project {
		p := &repository.Project{
			Title:        title,
			Description:  "About " + title,
			Category:     category,
			Status:       status,
			Technologies: tech,
			SEO:          repository.ProjectSEO{Slug: strPtr(uuid.NewString())},
		}
		require.NoError(t, repo.Create(ctx, p))
		return p
	}

	shop := newProject("Shop", types.CategoryEcommerce, types.ProjectPublished, "Go", "React")
	site := newProject("Site", types.CategoryWebDevelopment, types.ProjectPublished, "Vue")
	draft := newProject("Draft", types.CategoryWebDevelopment, types.ProjectDraft)

	dup := &repository.Project{
		Title: "Dup", Description: "dup", Category: types.CategoryOther, Status: types.ProjectDraft,
		SEO: repository.ProjectSEO{Slug: shop.SEO.Slug},
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicateKey)

	bySlug, err := repo.FindBySlug(ctx, *shop.SEO.Slug)
	require.NoError(t, err)
	assert.Equal(t, shop.ID, bySlug.ID)
	assert.ElementsMatch(t, []string{"Go", "React"}, bySlug.Technologies)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.FindByID(ctx, "123")
	assert.ErrorIs(t, err, repository.ErrInvalidID)

	t.Run("filters", func(t *testing.T) {
		n, err := repo.Count(ctx, repository.ProjectFilter{Status: types.ProjectPublished})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		list, err := repo.List(ctx, repository.ProjectFilter{Technology: "react"}, repository.Page{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, shop.ID, list[0].ID)

		list, err = repo.List(ctx, repository.ProjectFilter{Category: types.CategoryWebDevelopment},
			repository.Page{Sort: []repository.SortField{{Field: "title", Desc: true}}})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, site.ID, list[0].ID)
		assert.Equal(t, draft.ID, list[1].ID)
	})

	t.Run("counters", func(t *testing.T) {
		views, err := repo.IncrementViews(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), views)
		views, err = repo.IncrementViews(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), views)

		likes, err := repo.IncrementLikes(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		_, err = repo.IncrementLikes(ctx, draft.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.IncrementViews(ctx, uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)

		m, err := repo.SumMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, repository.ProjectMetrics{Views: 2, Likes: 1}, m)
	})

	t.Run("aggregates", func(t *testing.T) {
		groups, err := repo.CountBy(ctx, "status")
		require.NoError(t, err)
		assert.Equal(t, []repository.GroupCount{
			{Key: types.ProjectPublished, Count: 2},
			{Key: types.ProjectDraft, Count: 1},
		}, groups)

		_, err = repo.CountBy(ctx, "title")
		assert.ErrorIs(t, err, repository.ErrConstraint)

		n, err := repo.CountSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		n, err = repo.CountSince(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("update and delete", func(t *testing.T) {
		p, err := repo.FindByID(ctx, draft.ID)
		require.NoError(t, err)
		p.Status = types.ProjectPublished
		p.Featured = true
		p.Links.Live = strPtr("https://example.com")
		require.NoError(t, repo.Update(ctx, p))

		got, err := repo.FindByID(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, types.ProjectPublished, got.Status)
		assert.True(t, got.Featured)
		require.NotNil(t, got.Links.Live)
		assert.Equal(t, "https://example.com", *got.Links.Live)
		assert.WithinDuration(t, draft.CreatedAt, got.CreatedAt, time.Millisecond)

		got.SEO.Slug = site.SEO.Slug
		assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrDuplicateKey)

		require.NoError(t, repo.Delete(ctx, draft.ID))
		assert.ErrorIs(t, repo.Delete(ctx, draft.ID), repository.ErrNotFound)
	})
}

func testContactRepository(t *testing.T, repo repository.ContactRepository) {
	ctx := context.Background()

	newContact := func(name, priority string, projectType *string) *repository.Contact {
		c := &repository.Contact{
			Name:        name,
			Email:       "contact@example.com",
			Subject:     "Hello",
			Message:     "We would like a quote.",
			ProjectType: projectType,
			Budget:      types.BudgetUnspecified,
			Timeline:    types.TimelineFlexible,
			Status:      types.ContactNew,
			Priority:    priority,
			Source:      "website",
			Metadata:    repository.ContactMetadata{IPAddress: "203.0.113.7", UTMSource: "newsletter"},
		}
		require.NoError(t, repo.Create(ctx, c))
		return c
	}

	web := newContact("Ann", types.PriorityHigh, strPtr(types.CategoryWebDevelopment))
	newContact("Ben", types.PriorityMedium, nil)
	cid := newContact("Cid", types.PriorityMedium, nil)

	got, err := repo.FindByID(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got.Metadata.IPAddress)
	assert.Equal(t, "newsletter", got.Metadata.UTMSource)
	assert.Empty(t, got.Notes.Internal)

	n, err := repo.Count(ctx, repository.ContactFilter{Priority: types.PriorityMedium})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := repo.List(ctx, repository.ContactFilter{ProjectType: types.CategoryWebDevelopment}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, web.ID, list[0].ID)

	groups, err := repo.CountBy(ctx, "projectType")
	require.NoError(t, err)
	assert.Equal(t, []repository.GroupCount{
		{Key: repository.UnspecifiedKey, Count: 2},
		{Key: types.CategoryWebDevelopment, Count: 1},
	}, groups)

	now := time.Now().UTC().Truncate(time.Second)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	got.Status = types.ContactInProgress
	got.Notes.Internal = append(got.Notes.Internal, repository.Note{Note: "Called back", AddedBy: "admin", AddedAt: now})
	got.FollowUp.Scheduled = &past
	require.NoError(t, repo.Update(ctx, got))

	c, err := repo.FindByID(ctx, cid.ID)
	require.NoError(t, err)
	c.FollowUp.Scheduled = &future
	require.NoError(t, repo.Update(ctx, c))

	updated, err := repo.FindByID(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ContactInProgress, updated.Status)
	require.Len(t, updated.Notes.Internal, 1)
	assert.Equal(t, "Called back", updated.Notes.Internal[0].Note)

	overdue, err := repo.FindOverdueFollowUps(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, web.ID, overdue[0].ID)

	require.NoError(t, repo.Delete(ctx, web.ID))
	_, err = repo.FindByID(ctx, web.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}
