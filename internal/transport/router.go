package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/obra/internal/catalog"
	"github.com/alexanderramin/obra/internal/service"

	activityhandler "github.com/alexanderramin/obra/internal/transport/activity"
	planhandler "github.com/alexanderramin/obra/internal/transport/plan"
	projecthandler "github.com/alexanderramin/obra/internal/transport/project"
	templateshandler "github.com/alexanderramin/obra/internal/transport/templates"
)

// Services are the use cases the HTTP API exposes.
type Services struct {
	Projects   service.ProjectService
	Activities service.ActivityService
	Planning   service.PlanningService
	Catalog    *catalog.Catalog
}

func NewRouter(svcs Services) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cat := svcs.Catalog
	if cat == nil {
		cat = &catalog.Catalog{SchemaVersion: catalog.SchemaVersion}
	}

	api := r.Group("/api")
	projecthandler.Register(api.Group("/projects"), svcs.Projects)
	activityhandler.Register(api.Group("/activities"), svcs.Activities)
	planhandler.Register(api.Group("/plans"), svcs.Planning, svcs.Projects)
	templateshandler.Register(api.Group("/templates"), cat)

	return r
}
