package service

import (
	"context"
	"time"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/types"
)

// ============================================
// Contact Service
// ============================================

type ContactService interface {
	Submit(ctx context.Context, req *models.ContactRequest, meta repository.ContactMetadata) (*repository.Contact, error)
	List(ctx context.Context, q *models.ContactListQuery) ([]*repository.Contact, models.Pagination, error)
	Get(ctx context.Context, id string) (*repository.Contact, error)
	UpdateStatus(ctx context.Context, id string, req *models.ContactStatusRequest, actor *repository.User) (*repository.Contact, error)
	AddNote(ctx context.Context, id, noteType, note string, actor *repository.User) (*repository.Contact, error)
	ScheduleFollowUp(ctx context.Context, id string, at time.Time) (*repository.Contact, error)
	CompleteFollowUp(ctx context.Context, id string) (*repository.Contact, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.ContactStats, error)
	OverdueFollowUps(ctx context.Context) ([]*repository.Contact, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	now         func() time.Time
}

func NewContactService(contactRepo repository.ContactRepository, now func() time.Time) ContactService {
	return &contactService{contactRepo: contactRepo, now: now}
}

// DerivePriority applies the submission-time priority rule: a large budget or
// an asap timeline is high, a mid budget or one-month timeline is medium, and
// anything else keeps the declared priority.
func DerivePriority(budget, timeline, declared string) string {
	switch {
	case budget == types.BudgetOver50k || timeline == types.TimelineASAP:
		return types.PriorityHigh
	case budget == types.Budget25kTo50k || timeline == types.TimelineOneMonth:
		return types.PriorityMedium
	case declared != "":
		return declared
	default:
		return types.PriorityMedium
	}
}

func (s *contactService) Submit(ctx context.Context, req *models.ContactRequest, meta repository.ContactMetadata) (*repository.Contact, error) {
	contact := &repository.Contact{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Subject:     req.Subject,
		Message:     req.Message,
		ProjectType: req.ProjectType,
		Budget:      orDefault(req.Budget, types.BudgetUnspecified),
		Timeline:    orDefault(req.Timeline, types.TimelineUnspecified),
		Status:      types.ContactNew,
		Source:      orDefault(req.Source, types.SourceWebsite),
		Metadata:    meta,
		Notes:       repository.ContactNotes{Internal: []repository.Note{}, Client: []repository.Note{}},
	}
	contact.Priority = DerivePriority(contact.Budget, contact.Timeline, req.Priority)

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, q *models.ContactListQuery) ([]*repository.Contact, models.Pagination, error) {
	page, p, l, err := pageFor(q.Page, q.Limit, models.DefaultContactLimit, q.Sort, repository.ContactSortFields)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	filter := repository.ContactFilter{
		Status:      q.Status,
		Priority:    q.Priority,
		ProjectType: q.ProjectType,
		Source:      q.Source,
	}

	contacts, err := s.contactRepo.List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	total, err := s.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return contacts, models.NewPagination(p, l, total), nil
}

func (s *contactService) Get(ctx context.Context, id string) (*repository.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Contact not found")
	}
	return contact, nil
}

func (s *contactService) save(ctx context.Context, contact *repository.Contact) (*repository.Contact, error) {
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, notFound(err, "Contact not found")
	}
	return contact, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id string, req *models.ContactStatusRequest, actor *repository.User) (*repository.Contact, error) {
	if req.Status == nil && req.Priority == nil && (req.Notes == nil || *req.Notes == "") {
		return nil, apperror.Validation(apperror.FieldError{
			Field:   "status",
			Message: "At least one of status, priority or notes is required",
		})
	}

	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		contact.Status = *req.Status
	}
	if req.Priority != nil {
		contact.Priority = *req.Priority
	}
	if req.Notes != nil && *req.Notes != "" {
		contact.Notes.Internal = append(contact.Notes.Internal, repository.Note{
			Note:    *req.Notes,
			AddedBy: actorName(actor),
			AddedAt: s.now(),
		})
	}
	return s.save(ctx, contact)
}

func (s *contactService) AddNote(ctx context.Context, id, noteType, note string, actor *repository.User) (*repository.Contact, error) {
	if noteType != types.NoteInternal && noteType != types.NoteClient {
		return nil, apperror.InvalidArgument("Note type must be either internal or client")
	}

	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := repository.Note{Note: note, AddedAt: s.now()}
	if noteType == types.NoteInternal {
		entry.AddedBy = actorName(actor)
		contact.Notes.Internal = append(contact.Notes.Internal, entry)
	} else {
		contact.Notes.Client = append(contact.Notes.Client, entry)
	}
	return s.save(ctx, contact)
}

func (s *contactService) ScheduleFollowUp(ctx context.Context, id string, at time.Time) (*repository.Contact, error) {
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	contact.FollowUp = repository.FollowUp{Scheduled: &at, Completed: false}
	return s.save(ctx, contact)
}

func (s *contactService) CompleteFollowUp(ctx context.Context, id string) (*repository.Contact, error) {
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	contact.FollowUp.Completed = true
	contact.FollowUp.CompletedAt = &now
	return s.save(ctx, contact)
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Contact not found")
	}
	return nil
}

func (s *contactService) Stats(ctx context.Context) (*models.ContactStats, error) {
	total, err := s.contactRepo.Count(ctx, repository.ContactFilter{})
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.GroupStat, len(repository.ContactGroupFields))
	for _, field := range repository.ContactGroupFields {
		counts, err := s.contactRepo.CountBy(ctx, field)
		if err != nil {
			return nil, err
		}
		groups[field] = groupStats(counts, total)
	}

	now := s.now()
	last30, err := s.contactRepo.CountSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.contactRepo.CountSince(ctx, startOfMonth(now))
	if err != nil {
		return nil, err
	}

	return &models.ContactStats{
		Total:         total,
		ByStatus:      groups["status"],
		ByPriority:    groups["priority"],
		ByProjectType: groups["projectType"],
		ByBudget:      groups["budget"],
		ByTimeline:    groups["timeline"],
		BySource:      groups["source"],
		Last30Days:    last30,
		ThisMonth:     thisMonth,
	}, nil
}

func (s *contactService) OverdueFollowUps(ctx context.Context) ([]*repository.Contact, error) {
	return s.contactRepo.FindOverdueFollowUps(ctx, s.now())
}

func actorName(u *repository.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
