// controllers/suggestion.go
package controllers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"suggestion-box-api/config"
	"suggestion-box-api/models"
	"suggestion-box-api/services"
	"suggestion-box-api/utils"

	"github.com/gin-gonic/gin"
)

// internalError answers a 500 with the standard envelope. The underlying
// error text is exposed only outside production.
func internalError(c *gin.Context, message string, err error) {
	resp := gin.H{
		"success": false,
		"message": message,
	}
	if err != nil && strings.ToLower(os.Getenv("ENVIRONMENT")) != "production" {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// validationError answers a 400 with field-level detail.
func validationError(c *gin.Context, message string, detail string) {
	resp := gin.H{
		"success": false,
		"message": message,
	}
	if detail != "" {
		resp["error"] = detail
	}
	c.JSON(http.StatusBadRequest, resp)
}

// CreateSuggestion handles the public form: validate, scan for offensive
// content, persist, and notify staff. The notification is best-effort; the
// submitter gets a success response as soon as the record is stored.
func CreateSuggestion(c *gin.Context) {
	var req models.SuggestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, "Por favor completa todos los campos obligatorios", err.Error())
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	req.Subject = utils.SanitizeInput(req.Subject)
	req.Message = utils.SanitizeInput(req.Message)

	if req.Subject == "" || req.Message == "" {
		validationError(c, "Por favor completa todos los campos obligatorios", "subject and message must not be blank")
		return
	}

	if !utils.ValidateInstitutionalEmail(req.Email) {
		validationError(c, "Debe ser un correo institucional válido del CETIS 131", "email must match the institutional domain")
		return
	}

	suggestion := services.Moderation.BuildSuggestion(req, services.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	if err := config.DB.Create(&suggestion).Error; err != nil {
		internalError(c, "Error al procesar tu sugerencia", err)
		return
	}

	services.DispatchNotification(&suggestion)

	if suggestion.HasOffensiveContent {
		services.LogOffensiveAlert(&suggestion)
	} else {
		log.Printf("✅ Nueva sugerencia recibida: %d", suggestion.SuggestionID)
	}

	message := "Sugerencia enviada correctamente"
	if suggestion.HasOffensiveContent {
		message = "Tu mensaje ha sido recibido pero contiene lenguaje inapropiado. Será revisado por orientación."
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data": gin.H{
			"id":                    suggestion.SuggestionID,
			"folio":                 suggestion.Folio,
			"has_offensive_content": suggestion.HasOffensiveContent,
			"severity":              suggestion.Severity,
			"requires_meeting":      suggestion.RequiresMeeting,
		},
	})
}
