package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"suggestion-box-api/config"
	"suggestion-box-api/models"
	"suggestion-box-api/routes"
	"suggestion-box-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Suggestion{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	config.DB = db

	services.InitModeration(config.OffensiveWords())

	router := gin.New()
	routes.SetupRoutes(router)
	return router
}

func postSuggestion(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type createdData struct {
	ID                  uint    `json:"id"`
	Folio               string  `json:"folio"`
	HasOffensiveContent bool    `json:"has_offensive_content"`
	Severity            *string `json:"severity"`
	RequiresMeeting     bool    `json:"requires_meeting"`
}

type createEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    createdData `json:"data"`
}

type listEnvelope struct {
	Success bool                        `json:"success"`
	Count   int                         `json:"count"`
	Data    []models.SuggestionResponse `json:"data"`
}

type itemEnvelope struct {
	Success bool                      `json:"success"`
	Data    models.SuggestionResponse `json:"data"`
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestCreateSuggestionClean(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{
		"email": "juan.perez@cetis131.edu.mx",
		"subject": "Horario",
		"message": "Me gustaría más tiempo en el taller"
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp createEnvelope
	decodeBody(t, w, &resp)
	if !resp.Success {
		t.Error("expected success = true")
	}
	if resp.Data.HasOffensiveContent {
		t.Error("expected has_offensive_content = false")
	}
	if resp.Data.Severity != nil {
		t.Errorf("expected null severity, got %q", *resp.Data.Severity)
	}
	if resp.Data.Folio == "" {
		t.Error("expected a folio in the receipt")
	}

	// Round-trip: fetching by id returns the same field values.
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/suggestions/%d", resp.Data.ID), nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on fetch, got %d", w2.Code)
	}

	var fetched itemEnvelope
	decodeBody(t, w2, &fetched)
	if fetched.Data.Email != "juan.perez@cetis131.edu.mx" {
		t.Errorf("email = %q, want lowercased original", fetched.Data.Email)
	}
	if fetched.Data.Subject != "Horario" || fetched.Data.Message != "Me gustaría más tiempo en el taller" {
		t.Errorf("subject/message changed across round-trip: %+v", fetched.Data)
	}
	if fetched.Data.Status != models.StatusPending {
		t.Errorf("status = %q, want pendiente", fetched.Data.Status)
	}
	if fetched.Data.Type != models.TypeSuggestion {
		t.Errorf("type = %q, want default sugerencia", fetched.Data.Type)
	}
	if fetched.Data.Folio != resp.Data.Folio {
		t.Errorf("folio changed across round-trip: %q vs %q", fetched.Data.Folio, resp.Data.Folio)
	}
}

func TestCreateSuggestionSingleOffensiveWord(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{
		"email": "alumno@cetis131.edu.mx",
		"type": "queja",
		"subject": "Maestro",
		"message": "el maestro es un idiota"
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp createEnvelope
	decodeBody(t, w, &resp)
	if !resp.Data.HasOffensiveContent {
		t.Fatal("expected has_offensive_content = true")
	}
	if resp.Data.Severity == nil || *resp.Data.Severity != models.SeverityModerate {
		t.Errorf("severity = %v, want moderado", resp.Data.Severity)
	}
	if resp.Data.RequiresMeeting {
		t.Error("expected requires_meeting = false for one match")
	}

	var stored models.Suggestion
	if err := config.DB.First(&stored, resp.Data.ID).Error; err != nil {
		t.Fatalf("failed to load stored record: %v", err)
	}
	if stored.Status != models.StatusInvestigation {
		t.Errorf("status = %q, want investigacion", stored.Status)
	}
	if len(stored.OffensiveWords) != 1 || stored.OffensiveWords[0] != "idiota" {
		t.Errorf("offensive_words = %v, want [idiota]", stored.OffensiveWords)
	}
}

func TestCreateSuggestionThreeOffensiveWords(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{
		"email": "alumno@cetis131.edu.mx",
		"type": "reporte",
		"subject": "Reporte",
		"message": "idiota tonto mierda"
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp createEnvelope
	decodeBody(t, w, &resp)
	if resp.Data.Severity == nil || *resp.Data.Severity != models.SeveritySevere {
		t.Errorf("severity = %v, want grave", resp.Data.Severity)
	}
	if !resp.Data.RequiresMeeting {
		t.Error("expected requires_meeting = true for grave")
	}
}

func TestCreateSuggestionRejectsForeignEmail(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{
		"email": "alguien@gmail.com",
		"subject": "Hola",
		"message": "mensaje"
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	config.DB.Model(&models.Suggestion{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submission must not be persisted, found %d rows", count)
	}
}

func TestCreateSuggestionRejectsMissingFields(t *testing.T) {
	router := setupTestRouter(t)

	for _, body := range []string{
		`{"subject": "x", "message": "y"}`,
		`{"email": "a@cetis131.edu.mx", "message": "y"}`,
		`{"email": "a@cetis131.edu.mx", "subject": "x"}`,
		`{"email": "a@cetis131.edu.mx", "subject": "   ", "message": "y"}`,
	} {
		if w := postSuggestion(t, router, body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCreateSuggestionRejectsUnknownType(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{
		"email": "alumno@cetis131.edu.mx",
		"type": "otra-cosa",
		"subject": "Hola",
		"message": "mensaje"
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", w.Code)
	}
}

func seedSuggestions(t *testing.T, router *gin.Engine) {
	t.Helper()
	bodies := []string{
		`{"email": "a@cetis131.edu.mx", "subject": "Limpieza", "message": "más botes de basura"}`,
		`{"email": "b@cetis131.edu.mx", "type": "queja", "subject": "Baños", "message": "sin agua"}`,
		`{"email": "c@cetis131.edu.mx", "type": "queja", "subject": "Maestro", "message": "es un idiota"}`,
		`{"email": "d@cetis131.edu.mx", "type": "reporte", "subject": "Pelea", "message": "idiota tonto mierda"}`,
	}
	for _, body := range bodies {
		if w := postSuggestion(t, router, body); w.Code != http.StatusCreated {
			t.Fatalf("seed failed (%d): %s", w.Code, w.Body.String())
		}
	}
}

func getList(t *testing.T, router *gin.Engine, path string) listEnvelope {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d: %s", path, w.Code, w.Body.String())
	}
	var resp listEnvelope
	decodeBody(t, w, &resp)
	return resp
}

func TestGetSuggestionsFilters(t *testing.T) {
	router := setupTestRouter(t)
	seedSuggestions(t, router)

	all := getList(t, router, "/api/suggestions")
	if all.Count != 4 {
		t.Fatalf("expected 4 suggestions, got %d", all.Count)
	}

	pending := getList(t, router, "/api/suggestions?status=pendiente")
	if pending.Count != 2 {
		t.Errorf("expected 2 pendiente, got %d", pending.Count)
	}
	for _, s := range pending.Data {
		if s.Status != models.StatusPending {
			t.Errorf("filter leaked status %q", s.Status)
		}
	}

	offensive := getList(t, router, "/api/suggestions?has_offensive=true")
	if offensive.Count != 2 {
		t.Errorf("expected 2 flagged, got %d", offensive.Count)
	}

	// Combined filters intersect.
	flaggedComplaints := getList(t, router, "/api/suggestions?has_offensive=true&type=queja")
	if flaggedComplaints.Count != 1 {
		t.Fatalf("expected 1 flagged queja, got %d", flaggedComplaints.Count)
	}
	if flaggedComplaints.Data[0].Type != models.TypeComplaint || !flaggedComplaints.Data[0].HasOffensiveContent {
		t.Errorf("intersection returned wrong row: %+v", flaggedComplaints.Data[0])
	}

	grave := getList(t, router, "/api/suggestions?severity=grave")
	if grave.Count != 1 {
		t.Errorf("expected 1 grave, got %d", grave.Count)
	}
}

func TestGetOffensiveSuggestionsOrdering(t *testing.T) {
	router := setupTestRouter(t)
	seedSuggestions(t, router)

	resp := getList(t, router, "/api/suggestions/offensive")
	if resp.Count != 2 {
		t.Fatalf("expected 2 flagged suggestions, got %d", resp.Count)
	}
	for _, s := range resp.Data {
		if !s.HasOffensiveContent {
			t.Errorf("offensive view leaked a clean row: %+v", s)
		}
	}
	if resp.Data[0].Severity == nil || *resp.Data[0].Severity != models.SeveritySevere {
		t.Errorf("expected grave first, got %v", resp.Data[0].Severity)
	}
}

func TestUpdateSuggestionWorkflow(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{"email": "a@cetis131.edu.mx", "subject": "Limpieza", "message": "más botes"}`)
	var created createEnvelope
	decodeBody(t, w, &created)

	patch := `{
		"status": "en_revision",
		"notes": "hablado con servicios escolares",
		"reviewer_email": "orientacion@cetis131.edu.mx",
		"meeting_date": "2026-09-01T10:00:00Z"
	}`
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/api/suggestions/%d", created.Data.ID), strings.NewReader(patch))
	req.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	var updated itemEnvelope
	decodeBody(t, w2, &updated)
	if updated.Data.Status != models.StatusInReview {
		t.Errorf("status = %q, want en_revision", updated.Data.Status)
	}
	if !updated.Data.Reviewed || updated.Data.ReviewedBy == nil || *updated.Data.ReviewedBy != "orientacion@cetis131.edu.mx" {
		t.Errorf("reviewer fields not applied: %+v", updated.Data)
	}
	if updated.Data.ReviewedAt == nil {
		t.Error("reviewed_at must be set when a reviewer is recorded")
	}
	if !updated.Data.RequiresMeeting || updated.Data.MeetingScheduled == nil {
		t.Errorf("meeting fields not applied: %+v", updated.Data)
	}
	// Submission content stays immutable.
	if updated.Data.Subject != "Limpieza" || updated.Data.Email != "a@cetis131.edu.mx" {
		t.Errorf("immutable fields changed: %+v", updated.Data)
	}
}

func TestUpdateSuggestionAllowsReopening(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{"email": "a@cetis131.edu.mx", "subject": "x", "message": "y"}`)
	var created createEnvelope
	decodeBody(t, w, &created)

	for _, status := range []string{models.StatusResolved, models.StatusClosed, models.StatusPending} {
		body := fmt.Sprintf(`{"status": %q}`, status)
		req := httptest.NewRequest("PATCH", fmt.Sprintf("/api/suggestions/%d", created.Data.ID), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req)
		if w2.Code != http.StatusOK {
			t.Fatalf("transition to %q: expected 200, got %d", status, w2.Code)
		}
	}
}

func TestUpdateSuggestionNotFound(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("PATCH", "/api/suggestions/999", strings.NewReader(`{"status": "cerrado"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteSuggestionThenFetch(t *testing.T) {
	router := setupTestRouter(t)

	w := postSuggestion(t, router, `{"email": "a@cetis131.edu.mx", "subject": "x", "message": "y"}`)
	var created createEnvelope
	decodeBody(t, w, &created)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/suggestions/%d", created.Data.ID), nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w2.Code)
	}

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/suggestions/%d", created.Data.ID), nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w3.Code)
	}

	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/suggestions/%d", created.Data.ID), nil)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req)
	if w4.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on double delete, got %d", w4.Code)
	}
}

func TestGetSuggestionStats(t *testing.T) {
	router := setupTestRouter(t)
	seedSuggestions(t, router)

	req := httptest.NewRequest("GET", "/api/suggestions/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total    int64 `json:"total"`
			ByType   []struct {
				Label string `json:"label"`
				Count int64  `json:"count"`
			} `json:"by_type"`
			ByStatus []struct {
				Label string `json:"label"`
				Count int64  `json:"count"`
			} `json:"by_status"`
			Offensive  int64 `json:"offensive"`
			BySeverity []struct {
				Label string `json:"label"`
				Count int64  `json:"count"`
			} `json:"by_severity"`
		} `json:"data"`
	}
	decodeBody(t, w, &resp)

	if resp.Data.Total != 4 {
		t.Errorf("total = %d, want 4", resp.Data.Total)
	}
	if resp.Data.Offensive != 2 {
		t.Errorf("offensive = %d, want 2", resp.Data.Offensive)
	}

	typeCounts := map[string]int64{}
	for _, b := range resp.Data.ByType {
		typeCounts[b.Label] = b.Count
	}
	if typeCounts["queja"] != 2 || typeCounts["sugerencia"] != 1 || typeCounts["reporte"] != 1 {
		t.Errorf("by_type = %v", typeCounts)
	}

	severityCounts := map[string]int64{}
	for _, b := range resp.Data.BySeverity {
		severityCounts[b.Label] = b.Count
	}
	if severityCounts["moderado"] != 1 || severityCounts["grave"] != 1 {
		t.Errorf("by_severity = %v", severityCounts)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "online") {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}
