package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcraft/agency-api/internal/api/middleware"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
	"github.com/pixelcraft/agency-api/internal/service"
	"github.com/pixelcraft/agency-api/internal/types"
)

// ============================================
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func projectList(c *gin.Context, projects []*repository.Project, pagination models.Pagination) {
	respond(c, http.StatusOK, "Projects retrieved successfully", gin.H{
		"projects":   models.NewProjectResponses(projects),
		"pagination": pagination,
	})
}

// List - List projects; drafts and archived only for admins
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var q models.ProjectListQuery
	if !bindQuery(c, &q) {
		return
	}

	isAdmin := middleware.HasRole(c, types.RoleAdmin)
	projects, pagination, err := h.projectService.List(c.Request.Context(), &q, isAdmin)
	if err != nil {
		_ = c.Error(err)
		return
	}
	projectList(c, projects, pagination)
}

// Featured - Up to six featured, published projects
// GET /api/projects/featured
func (h *ProjectHandler) Featured(c *gin.Context) {
	projects, err := h.projectService.Featured(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Featured projects retrieved successfully", gin.H{
		"projects": models.NewProjectResponses(projects),
	})
}

// ByCategory - Published projects in a category
// GET /api/projects/category/:category
func (h *ProjectHandler) ByCategory(c *gin.Context) {
	var q models.ProjectListQuery
	if !bindQuery(c, &q) {
		return
	}

	projects, pagination, err := h.projectService.ByCategory(c.Request.Context(), c.Param("category"), &q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	projectList(c, projects, pagination)
}

// ByTechnology - Published projects using a technology
// GET /api/projects/technology/:tech
func (h *ProjectHandler) ByTechnology(c *gin.Context) {
	var q models.ProjectListQuery
	if !bindQuery(c, &q) {
		return
	}

	projects, pagination, err := h.projectService.ByTechnology(c.Request.Context(), c.Param("tech"), &q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	projectList(c, projects, pagination)
}

// Get - A project by id or slug; counts a view
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	isAdmin := middleware.HasRole(c, types.RoleAdmin)

	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"), isAdmin)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Project retrieved successfully", gin.H{"project": models.NewProjectResponse(project)})
}

// Create - Create a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	user := middleware.GetUser(c)

	var req models.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), &req, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, "Project created successfully", gin.H{"project": models.NewProjectResponse(project)})
}

// Update - Partially update a project
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req models.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Project updated successfully", gin.H{"project": models.NewProjectResponse(project)})
}

func (h *ProjectHandler) setStatus(c *gin.Context, status, message string) {
	project, err := h.projectService.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, message, gin.H{"project": models.NewProjectResponse(project)})
}

// Publish - Make a project public
// PUT /api/projects/:id/publish
func (h *ProjectHandler) Publish(c *gin.Context) {
	h.setStatus(c, types.ProjectPublished, "Project published successfully")
}

// Archive - Hide a project from the public site
// PUT /api/projects/:id/archive
func (h *ProjectHandler) Archive(c *gin.Context) {
	h.setStatus(c, types.ProjectArchived, "Project archived successfully")
}

// Delete - Delete a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Project deleted successfully", nil)
}

// Like - Count a like on a published project
// POST /api/projects/:id/like
func (h *ProjectHandler) Like(c *gin.Context) {
	likes, err := h.projectService.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Project liked successfully", gin.H{"likes": likes})
}

// Stats - Aggregate project statistics
// GET /api/projects/admin/stats
func (h *ProjectHandler) Stats(c *gin.Context) {
	stats, err := h.projectService.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Project statistics retrieved successfully", gin.H{"stats": stats})
}
