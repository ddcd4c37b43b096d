package project

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/alexanderramin/obra/internal/transport/respond"
)

func Register(rg *gin.RouterGroup, svc service.ProjectService) {
	rg.GET("", listProjects(svc))
	rg.POST("", createProject(svc))
	rg.GET("/:id", getProject(svc))
	rg.DELETE("/:id", deleteProject(svc))
	rg.POST("/:id/archive", archiveProject(svc))
	rg.POST("/:id/unarchive", unarchiveProject(svc))
}

type Response struct {
	ID         string       `json:"id"`
	ShortID    string       `json:"short_id"`
	Name       string       `json:"name"`
	Address    string       `json:"address,omitempty"`
	StartDate  domain.Date  `json:"start_date"`
	TargetDate *domain.Date `json:"target_date,omitempty"`
	Status     string       `json:"status"`
	ArchivedAt *time.Time   `json:"archived_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

func newResponse(p *domain.Project) Response {
	return Response{
		ID:         p.ID,
		ShortID:    p.ShortID,
		Name:       p.Name,
		Address:    p.Address,
		StartDate:  p.StartDate,
		TargetDate: p.TargetDate,
		Status:     string(p.Status),
		ArchivedAt: p.ArchivedAt,
		CreatedAt:  p.CreatedAt,
	}
}

type createProjectReq struct {
	ShortID    string       `json:"short_id" binding:"required"`
	Name       string       `json:"name" binding:"required"`
	Address    string       `json:"address"`
	StartDate  domain.Date  `json:"start_date"`
	TargetDate *domain.Date `json:"target_date"`
}

func createProject(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		p := &domain.Project{
			ShortID:    req.ShortID,
			Name:       req.Name,
			Address:    req.Address,
			StartDate:  req.StartDate,
			TargetDate: req.TargetDate,
		}
		if err := svc.Create(c.Request.Context(), p); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, newResponse(p))
	}
}

func listProjects(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), c.Query("archived") == "true")
		if err != nil {
			respond.Error(c, err)
			return
		}
		out := make([]Response, 0, len(list))
		for _, p := range list {
			out = append(out, newResponse(p))
		}
		c.JSON(http.StatusOK, out)
	}
}

// getProject accepts either the project ID or its short code.
func getProject(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, newResponse(p))
	}
}

func archiveProject(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := svc.Archive(c.Request.Context(), p.ID); err != nil {
			respond.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func unarchiveProject(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := svc.Unarchive(c.Request.Context(), p.ID); err != nil {
			respond.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteProject(svc service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Resolve(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := svc.Delete(c.Request.Context(), p.ID, c.Query("force") == "true"); err != nil {
			respond.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
