package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcraft/agency-api/internal/api/middleware"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/service"
)

// ============================================
// Contact Handler
// ============================================

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) contact(c *gin.Context, status int, message string, contact any) {
	respond(c, status, message, gin.H{"contact": contact})
}

// Submit - Public contact form
// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Submit(c.Request.Context(), &req, requestMetadata(c, &req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusCreated, "Thank you for your message. We will get back to you soon!", models.NewContactResponse(contact))
}

// List - Paginated inquiries
// GET /api/contact
func (h *ContactHandler) List(c *gin.Context) {
	var q models.ContactListQuery
	if !bindQuery(c, &q) {
		return
	}

	contacts, pagination, err := h.contactService.List(c.Request.Context(), &q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Contacts retrieved successfully", gin.H{
		"contacts":   models.NewContactResponses(contacts),
		"pagination": pagination,
	})
}

// Get - A single inquiry
// GET /api/contact/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusOK, "Contact retrieved successfully", models.NewContactResponse(contact))
}

// UpdateStatus - Set status and/or priority, optionally with a note
// PUT /api/contact/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req models.ContactStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateStatus(c.Request.Context(), c.Param("id"), &req, middleware.GetUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusOK, "Contact status updated successfully", models.NewContactResponse(contact))
}

// AddNote - Append an internal or client note
// POST /api/contact/:id/notes
func (h *ContactHandler) AddNote(c *gin.Context) {
	var req models.NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.AddNote(c.Request.Context(), c.Param("id"), req.Type, req.Note, middleware.GetUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusOK, "Note added successfully", models.NewContactResponse(contact))
}

// ScheduleFollowUp - Set the follow-up date
// POST /api/contact/:id/followup
func (h *ContactHandler) ScheduleFollowUp(c *gin.Context) {
	var req models.FollowUpRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.ScheduleFollowUp(c.Request.Context(), c.Param("id"), *req.Scheduled)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusOK, "Follow-up scheduled successfully", models.NewContactResponse(contact))
}

// CompleteFollowUp - Mark the follow-up done
// PUT /api/contact/:id/followup/complete
func (h *ContactHandler) CompleteFollowUp(c *gin.Context) {
	contact, err := h.contactService.CompleteFollowUp(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.contact(c, http.StatusOK, "Follow-up marked as completed", models.NewContactResponse(contact))
}

// Delete - Delete an inquiry
// DELETE /api/contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Contact deleted successfully", nil)
}

// Stats - Aggregate inquiry statistics
// GET /api/contact/stats
func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.contactService.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Contact statistics retrieved successfully", gin.H{"stats": stats})
}
