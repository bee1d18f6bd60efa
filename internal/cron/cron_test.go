package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
)

func TestCheckOverdueFollowUps(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	repos := repository.NewMemoryRepositories()
	contacts := service.NewContactService(repos.ContactRepo, func() time.Time { return now })

	submit := func() *repository.Contact {
		c, err := contacts.Submit(ctx, &models.ContactRequest{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Subject: "Inquiry",
			Message: "Please get in touch with me.",
		}, repository.ContactMetadata{})
		require.NoError(t, err)
		return c
	}

	overdue := submit()
	_, err := contacts.ScheduleFollowUp(ctx, overdue.ID, now.Add(-2*time.Hour))
	require.NoError(t, err)

	upcoming := submit()
	_, err = contacts.ScheduleFollowUp(ctx, upcoming.ID, now.Add(2*time.Hour))
	require.NoError(t, err)

	done := submit()
	_, err = contacts.ScheduleFollowUp(ctx, done.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = contacts.CompleteFollowUp(ctx, done.ID)
	require.NoError(t, err)

	submit()

	core, logs := observer.New(zap.InfoLevel)
	s := NewScheduler(contacts, zap.New(core))

	assert.Equal(t, 1, s.CheckOverdueFollowUps(ctx))
	entries := logs.FilterMessage("follow-up overdue").All()
	require.Len(t, entries, 1)
	assert.Equal(t, overdue.ID, entries[0].ContextMap()["contact_id"])
}

func TestStartRejectsBadSchedule(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	s := NewScheduler(service.NewContactService(repos.ContactRepo, time.Now), zap.NewNop())

	assert.Error(t, s.Start("every tuesday-ish"))

	require.NoError(t, s.Start(""))
	s.Stop()
}
