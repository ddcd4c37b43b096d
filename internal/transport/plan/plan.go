package plan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/alexanderramin/obra/internal/transport/respond"
)

func Register(rg *gin.RouterGroup, planning service.PlanningService, projects service.ProjectService) {
	rg.POST("/preview", previewPlan(planning, projects))
	rg.POST("/commit", commitPlan(planning, projects))
}

func previewPlan(planning contract.PreviewPlanUseCase, projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, ok := bindPlan(c, projects)
		if !ok {
			return
		}
		preview, err := planning.Preview(c.Request.Context(), plan)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewPreviewResponse(preview))
	}
}

func commitPlan(planning contract.CommitPlanUseCase, projects service.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, ok := bindPlan(c, projects)
		if !ok {
			return
		}
		result, err := planning.Commit(c.Request.Context(), plan, nil)
		if err != nil {
			respond.Error(c, err)
			return
		}
		status := http.StatusCreated
		if len(result.Failed) > 0 {
			status = http.StatusMultiStatus
		}
		c.JSON(status, NewCommitResponse(result))
	}
}

// bindPlan decodes the request body and resolves a project short code to
// its ID. It writes the error response itself and reports whether the
// handler should go on.
func bindPlan(c *gin.Context, projects service.ProjectService) (domain.Plan, bool) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err.Error())
		return nil, false
	}
	if req.ProjectID != "" {
		p, err := projects.Resolve(c.Request.Context(), req.ProjectID)
		switch {
		case err == nil:
			req.ProjectID = p.ID
		case errors.Is(err, repository.ErrNotFound):
			// Commit reports the unknown project; preview does not need one.
		default:
			respond.Error(c, err)
			return nil, false
		}
	}
	plan, err := req.ToDomain()
	if err != nil {
		respond.Error(c, &contract.PlanError{Code: contract.PlanErrInvalid, Message: err.Error()})
		return nil, false
	}
	return plan, true
}
