// controllers/suggestion_admin.go - admin panel endpoints
package controllers

import (
	"net/http"
	"time"

	"suggestion-box-api/config"
	"suggestion-box-api/models"

	"github.com/gin-gonic/gin"
)

// severityRankExpr orders grave above moderado above leve. Severity is a
// string column, so plain ORDER BY would sort alphabetically.
const severityRankExpr = "CASE severity " +
	"WHEN 'grave' THEN 3 " +
	"WHEN 'moderado' THEN 2 " +
	"WHEN 'leve' THEN 1 " +
	"ELSE 0 END DESC"

// GetSuggestions lists suggestions with optional filters, newest first.
func GetSuggestions(c *gin.Context) {
	status := c.Query("status")
	hasOffensive := c.Query("has_offensive")
	suggestionType := c.Query("type")
	severity := c.Query("severity")

	query := config.DB.Model(&models.Suggestion{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if hasOffensive != "" {
		query = query.Where("has_offensive_content = ?", hasOffensive == "true")
	}
	if suggestionType != "" {
		query = query.Where("type = ?", suggestionType)
	}
	if severity != "" {
		query = query.Where("severity = ?", severity)
	}

	var suggestions []models.Suggestion
	if err := query.Order("created_at DESC").Find(&suggestions).Error; err != nil {
		internalError(c, "Error al obtener las sugerencias", err)
		return
	}

	responses := make([]models.SuggestionResponse, 0, len(suggestions))
	for i := range suggestions {
		responses = append(responses, suggestions[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(responses),
		"data":    responses,
	})
}

// GetOffensiveSuggestions lists flagged suggestions for the investigation
// panel, most severe first.
func GetOffensiveSuggestions(c *gin.Context) {
	var suggestions []models.Suggestion
	if err := config.DB.
		Where("has_offensive_content = ?", true).
		Order(severityRankExpr).
		Order("created_at DESC").
		Find(&suggestions).Error; err != nil {
		internalError(c, "Error al obtener sugerencias ofensivas", err)
		return
	}

	responses := make([]models.SuggestionResponse, 0, len(suggestions))
	for i := range suggestions {
		responses = append(responses, suggestions[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(responses),
		"data":    responses,
	})
}

// GetSuggestion returns a single suggestion by id.
func GetSuggestion(c *gin.Context) {
	id := c.Param("id")

	var suggestion models.Suggestion
	if err := config.DB.Where("suggestion_id = ?", id).First(&suggestion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Sugerencia no encontrada",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    suggestion.ToResponse(),
	})
}

// UpdateSuggestion applies review/workflow changes. Submission content is
// immutable; only status, notes, reviewer, and meeting fields can change.
// Last write wins on concurrent updates.
func UpdateSuggestion(c *gin.Context) {
	id := c.Param("id")

	var suggestion models.Suggestion
	if err := config.DB.Where("suggestion_id = ?", id).First(&suggestion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Sugerencia no encontrada",
		})
		return
	}

	var req models.SuggestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "Datos de actualización inválidos", err.Error())
		return
	}

	if req.Status != nil && *req.Status != "" {
		suggestion.Status = *req.Status
	}
	if req.Notes != nil && *req.Notes != "" {
		suggestion.Notes = *req.Notes
	}
	if req.ReviewerEmail != nil && *req.ReviewerEmail != "" {
		now := time.Now()
		suggestion.Reviewed = true
		suggestion.ReviewedBy = req.ReviewerEmail
		suggestion.ReviewedAt = &now
	}
	if req.MeetingDate != nil {
		suggestion.RequiresMeeting = true
		suggestion.MeetingScheduled = req.MeetingDate
	}

	if err := config.DB.Save(&suggestion).Error; err != nil {
		internalError(c, "Error al actualizar la sugerencia", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sugerencia actualizada correctamente",
		"data":    suggestion.ToResponse(),
	})
}

// DeleteSuggestion removes a suggestion permanently.
func DeleteSuggestion(c *gin.Context) {
	id := c.Param("id")

	var suggestion models.Suggestion
	if err := config.DB.Where("suggestion_id = ?", id).First(&suggestion).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Sugerencia no encontrada",
		})
		return
	}

	if err := config.DB.Delete(&suggestion).Error; err != nil {
		internalError(c, "Error al eliminar la sugerencia", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sugerencia eliminada correctamente",
	})
}

// GetSuggestionStats aggregates counts over the whole table: total, by type,
// by status, flagged total, and flagged by severity.
func GetSuggestionStats(c *gin.Context) {
	type bucket struct {
		Label string `gorm:"column:label" json:"label"`
		Count int64  `gorm:"column:count" json:"count"`
	}

	stats := make(map[string]interface{})

	var total int64
	if err := config.DB.Model(&models.Suggestion{}).Count(&total).Error; err != nil {
		internalError(c, "Error al obtener estadísticas", err)
		return
	}
	stats["total"] = total

	var byType []bucket
	if err := config.DB.Model(&models.Suggestion{}).
		Select("type AS label, COUNT(*) AS count").
		Group("type").
		Scan(&byType).Error; err != nil {
		internalError(c, "Error al obtener estadísticas", err)
		return
	}
	stats["by_type"] = byType

	var byStatus []bucket
	if err := config.DB.Model(&models.Suggestion{}).
		Select("status AS label, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		internalError(c, "Error al obtener estadísticas", err)
		return
	}
	stats["by_status"] = byStatus

	var offensiveTotal int64
	if err := config.DB.Model(&models.Suggestion{}).
		Where("has_offensive_content = ?", true).
		Count(&offensiveTotal).Error; err != nil {
		internalError(c, "Error al obtener estadísticas", err)
		return
	}
	stats["offensive"] = offensiveTotal

	var bySeverity []bucket
	if err := config.DB.Model(&models.Suggestion{}).
		Select("severity AS label, COUNT(*) AS count").
		Where("has_offensive_content = ?", true).
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		internalError(c, "Error al obtener estadísticas", err)
		return
	}
	stats["by_severity"] = bySeverity

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
