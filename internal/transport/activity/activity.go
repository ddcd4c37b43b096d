package activity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/alexanderramin/obra/internal/transport/respond"
)

func Register(rg *gin.RouterGroup, svc service.ActivityService) {
	rg.GET("", listActivities(svc))
	rg.POST("", createActivity(svc))
	rg.GET("/:id", getActivity(svc))
	rg.PATCH("/:id", updateActivity(svc))
	rg.DELETE("/:id", deleteActivity(svc))
	rg.POST("/:id/start", transition(svc.Start))
	rg.POST("/:id/complete", transition(svc.Complete))
	rg.POST("/:id/cancel", transition(svc.Cancel))
	rg.POST("/:id/reopen", transition(svc.Reopen))
}

// Response is the JSON shape of an activity.
type Response struct {
	ID             string       `json:"id"`
	ProjectID      string       `json:"project_id"`
	Title          string       `json:"title"`
	Responsible    string       `json:"responsible"`
	Type           string       `json:"type"`
	Priority       string       `json:"priority"`
	Status         string       `json:"status"`
	StartDate      *domain.Date `json:"start_date,omitempty"`
	DueDate        *domain.Date `json:"due_date,omitempty"`
	EstimatedHours float64      `json:"estimated_hours"`
	Notes          string       `json:"notes,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func NewResponse(a *domain.Activity) Response {
	return Response{
		ID:             a.ID,
		ProjectID:      a.ProjectID,
		Title:          a.Title,
		Responsible:    a.Responsible,
		Type:           a.Type,
		Priority:       string(a.Priority),
		Status:         string(a.Status),
		StartDate:      a.StartDate,
		DueDate:        a.DueDate,
		EstimatedHours: a.EstimatedHours,
		Notes:          a.Notes,
		CompletedAt:    a.CompletedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func newResponses(list []*domain.Activity) []Response {
	out := make([]Response, 0, len(list))
	for _, a := range list {
		out = append(out, NewResponse(a))
	}
	return out
}

type createActivityReq struct {
	ProjectID      string       `json:"project_id" binding:"required"`
	Title          string       `json:"title" binding:"required"`
	Responsible    string       `json:"responsible" binding:"required"`
	Type           string       `json:"type"`
	Priority       string       `json:"priority"`
	StartDate      *domain.Date `json:"start_date"`
	DueDate        *domain.Date `json:"due_date"`
	EstimatedHours float64      `json:"estimated_hours"`
	Notes          string       `json:"notes"`
}

func createActivity(svc service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createActivityReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		a := &domain.Activity{
			ProjectID:      req.ProjectID,
			Title:          req.Title,
			Responsible:    req.Responsible,
			Type:           req.Type,
			Priority:       domain.Priority(req.Priority),
			StartDate:      req.StartDate,
			DueDate:        req.DueDate,
			EstimatedHours: req.EstimatedHours,
			Notes:          req.Notes,
		}
		if err := svc.Create(c.Request.Context(), a); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, NewResponse(a))
	}
}

func listActivities(svc service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f repository.ActivityFilter
		f.ProjectID = c.Query("project_id")
		f.Responsible = c.Query("responsible")
		if v := c.Query("status"); v != "" {
			for _, s := range strings.Split(v, ",") {
				st := domain.ActivityStatus(strings.TrimSpace(s))
				if !domain.ValidActivityStatuses[st] {
					respond.BadRequest(c, "invalid status "+s)
					return
				}
				f.Statuses = append(f.Statuses, st)
			}
		}
		if c.Query("non_terminal") == "true" {
			f.ExcludeStatuses = domain.TerminalStatuses
		}
		for key, dst := range map[string]**domain.Date{"from": &f.From, "to": &f.To} {
			v := c.Query(key)
			if v == "" {
				continue
			}
			d, err := domain.ParseDate(v)
			if err != nil {
				respond.BadRequest(c, "invalid "+key+": "+err.Error())
				return
			}
			*dst = &d
		}

		list, err := svc.List(c.Request.Context(), f)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, newResponses(list))
	}
}

func getActivity(svc service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewResponse(a))
	}
}

// updateActivityReq carries the fields a PATCH may change; nil means keep.
type updateActivityReq struct {
	Title          *string      `json:"title"`
	Responsible    *string      `json:"responsible"`
	Type           *string      `json:"type"`
	Priority       *string      `json:"priority"`
	StartDate      *domain.Date `json:"start_date"`
	DueDate        *domain.Date `json:"due_date"`
	EstimatedHours *float64     `json:"estimated_hours"`
	Notes          *string      `json:"notes"`
}

func updateActivity(svc service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateActivityReq
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}

		a, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Responsible != nil {
			a.Responsible = *req.Responsible
		}
		if req.Type != nil {
			a.Type = *req.Type
		}
		if req.Priority != nil {
			a.Priority = domain.Priority(*req.Priority)
		}
		if req.StartDate != nil {
			a.StartDate = req.StartDate
		}
		if req.DueDate != nil {
			a.DueDate = req.DueDate
		}
		if req.EstimatedHours != nil {
			a.EstimatedHours = *req.EstimatedHours
		}
		if req.Notes != nil {
			a.Notes = *req.Notes
		}

		if err := svc.Update(c.Request.Context(), a); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewResponse(a))
	}
}

func deleteActivity(svc service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func transition(apply func(ctx context.Context, id string) (*domain.Activity, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := apply(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewResponse(a))
	}
}
