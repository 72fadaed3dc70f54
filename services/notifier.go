// services/notifier.go - staff notification emails
package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"suggestion-box-api/config"
	"suggestion-box-api/models"
)

// sendMailFunc is swapped out in tests.
var sendMailFunc = config.SendMail

// RecommendedAction returns the triage instruction shown to staff for a
// given severity level.
func RecommendedAction(severity string) string {
	if severity == models.SeveritySevere {
		return "⚡ CITACIÓN INMEDIATA - Contactar con dirección"
	}
	return "📞 Revisión de orientación educativa"
}

// NotificationRecipient selects the inbox for a suggestion: flagged content
// goes to the orientation office, everything else to the admin address.
func NotificationRecipient(offensive bool) string {
	if offensive {
		return config.OrientationEmail()
	}
	return config.AdminEmail()
}

// NotificationSubject builds the email subject line.
func NotificationSubject(s *models.Suggestion) string {
	if s.HasOffensiveContent {
		return fmt.Sprintf("⚠️ ALERTA: Contenido Inapropiado Detectado - %s", s.Email)
	}
	return fmt.Sprintf("📨 Nueva Sugerencia: %s", s.Type)
}

// BuildNotificationHTML renders the staff email body. Flagged suggestions get
// an extra highlighted block with the matched words, the severity, and the
// recommended action.
func BuildNotificationHTML(s *models.Suggestion) string {
	var b strings.Builder

	b.WriteString("<h2>Sistema de Sugerencias CETIS 131</h2>\n<hr>\n")
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", template.HTMLEscapeString(s.Email))
	fmt.Fprintf(&b, "<p><strong>Tipo:</strong> %s</p>\n", template.HTMLEscapeString(s.Type))
	fmt.Fprintf(&b, "<p><strong>Asunto:</strong> %s</p>\n", template.HTMLEscapeString(s.Subject))
	b.WriteString("<p><strong>Mensaje:</strong></p>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", template.HTMLEscapeString(s.Message))
	fmt.Fprintf(&b, "<p><strong>Fecha:</strong> %s</p>\n", s.CreatedAt.Format("02/01/2006 15:04"))
	b.WriteString("<hr>\n")

	if s.HasOffensiveContent {
		severity := ""
		if s.Severity != nil {
			severity = *s.Severity
		}
		b.WriteString(`<div style="background-color: #fee2e2; padding: 15px; border-left: 4px solid #dc2626;">` + "\n")
		b.WriteString(`<h3 style="color: #991b1b;">⚠️ CONTENIDO INAPROPIADO DETECTADO</h3>` + "\n")
		fmt.Fprintf(&b, "<p><strong>Palabras detectadas:</strong> %s</p>\n",
			template.HTMLEscapeString(strings.Join(s.OffensiveWords, ", ")))
		fmt.Fprintf(&b, "<p><strong>Severidad:</strong> %s</p>\n", strings.ToUpper(severity))
		fmt.Fprintf(&b, "<p><strong>Acción requerida:</strong> %s</p>\n", RecommendedAction(severity))
		b.WriteString("</div>\n")
	}

	return b.String()
}

// DispatchNotification sends the staff email for a freshly created
// suggestion. The send runs detached from the request: a failure is logged
// and dropped, never surfaced to the submitter. Exactly one email per call.
func DispatchNotification(s *models.Suggestion) {
	recipient := NotificationRecipient(s.HasOffensiveContent)
	subject := NotificationSubject(s)
	html := BuildNotificationHTML(s)

	go func() {
		if err := sendMailFunc([]string{recipient}, subject, html); err != nil {
			log.Printf("suggestion notification failed (folio=%s to=%q): %v", s.Folio, recipient, err)
			return
		}
		log.Printf("📧 Correo enviado a: %s", recipient)
	}()
}

// LogOffensiveAlert mirrors the email alert on the server console so flagged
// submissions are visible even when SMTP is down.
func LogOffensiveAlert(s *models.Suggestion) {
	severity := ""
	if s.Severity != nil {
		severity = *s.Severity
	}
	log.Println("🚨 ═══════════════════════════════════════════════════")
	log.Println("🚨 ALERTA DE CONTENIDO INAPROPIADO")
	log.Printf("📧 Email: %s", s.Email)
	log.Printf("📝 Tipo: %s", s.Type)
	log.Printf("📌 Asunto: %s", s.Subject)
	log.Printf("⚠️ Palabras detectadas: %s", strings.Join(s.OffensiveWords, ", "))
	log.Printf("🔴 Severidad: %s", strings.ToUpper(severity))
	log.Printf("📋 Acción requerida: %s", RecommendedAction(severity))
	log.Println("═══════════════════════════════════════════════════")
}
