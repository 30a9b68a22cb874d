package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

// GetGlossaryTerms returns glossary terms, optionally filtered
// GET /api/v1/glossary?q=ticket
func GetGlossaryTerms(c *gin.Context) {
	utils.SendSuccess(c, models.Glossary(c.Query("q")))
}
