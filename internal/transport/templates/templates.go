package templates

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/obra/internal/catalog"
)

func Register(rg *gin.RouterGroup, cat *catalog.Catalog) {
	rg.GET("", listDisciplines(cat))
	rg.GET("/:discipline", getDiscipline(cat))
}

func listDisciplines(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"schema_version": cat.SchemaVersion,
			"disciplines":    cat.Disciplines,
		})
	}
}

func getDiscipline(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := cat.Discipline(c.Param("discipline"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown discipline " + c.Param("discipline")})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
