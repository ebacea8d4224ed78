package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/config"
	domainRental "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/dto"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/middleware"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	ucRental "github.com/BruksfildServices01/estate-viewings/internal/usecase/rental"
	ucViewing "github.com/BruksfildServices01/estate-viewings/internal/usecase/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
}

// ======================================================
// STUBS
// ======================================================

type stubBooker struct {
	got ucViewing.BookViewingInput
	err error
}

func (s *stubBooker) Execute(_ context.Context, in ucViewing.BookViewingInput) (*models.PropertyViewing, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.PropertyViewing{ID: 1, Reference: "ref-1", PropertyID: in.PropertyID, BrokerID: in.BrokerID, Status: "scheduled"}, nil
}

type stubSlots struct{ got domain.OpenSlotsInput }

func (s *stubSlots) Execute(_ context.Context, in domain.OpenSlotsInput) ([]domain.OpenSlot, error) {
	s.got = in
	return []domain.OpenSlot{{SlotID: 3, Start: "10:00", End: "11:00", Remaining: 1}}, nil
}

type stubTransition struct {
	brokerID, viewingID uint
	err                 error
}

func (s *stubTransition) Execute(_ context.Context, brokerID, viewingID uint) (*models.PropertyViewing, error) {
	s.brokerID, s.viewingID = brokerID, viewingID
	if s.err != nil {
		return nil, s.err
	}
	return &models.PropertyViewing{ID: viewingID, BrokerID: brokerID, Status: "confirmed"}, nil
}

type stubByDate struct{}

func (stubByDate) Execute(_ context.Context, _ uint, date string) ([]dto.ViewingListDTO, error) {
	return []dto.ViewingListDTO{{ID: 1, ViewingDate: date}}, nil
}

type stubCalendar struct {
	got ucRental.BulkUpdateInput
	err error
}

func (s *stubCalendar) Execute(_ context.Context, in ucRental.BulkUpdateInput) (*ucRental.BulkUpdateResult, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &ucRental.BulkUpdateResult{ListingID: in.ListingID, DaysUpdated: 3, FieldsPatched: in.Patch.Columns()}, nil
}

type stubCalendarReader struct{}

func (stubCalendarReader) Execute(_ context.Context, listingID uint, from, _ string) ([]models.RentalCalendarDay, error) {
	return []models.RentalCalendarDay{{ListingID: listingID, Date: from}}, nil
}

// ======================================================
// HELPERS
// ======================================================

func asBroker(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextBrokerID, id)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func validBooking() map[string]any {
	return map[string]any{
		"broker_id":     5,
		"viewing_date":  "2030-03-04",
		"viewing_time":  "10:00",
		"visitor_name":  "Ana",
		"visitor_email": "ana@example.com",
	}
}

func viewingRouter(book *stubBooker, tr *stubTransition) *gin.Engine {
	h := NewViewingHandler(book, &stubSlots{}, tr, tr, tr, stubByDate{}, zap.NewNop())

	r := gin.New()
	r.POST("/properties/:propertyId/book-viewing", h.BookViewing)
	r.GET("/properties/:propertyId/viewing-slots", h.ViewingSlots)
	me := r.Group("/me", asBroker(5, models.RoleBroker))
	me.GET("/viewings", h.ListMine)
	me.PATCH("/viewings/:id/confirm", h.Confirm)
	return r
}

// ======================================================
// TESTS
// ======================================================

func TestBookViewing_Success(t *testing.T) {
	book := &stubBooker{}
	r := viewingRouter(book, &stubTransition{})

	w := do(r, http.MethodPost, "/properties/9/book-viewing", validBooking())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decode(t, w)
	if body["success"] != true {
		t.Errorf("missing success flag: %v", body)
	}
	if book.got.PropertyID != 9 || book.got.BrokerID != 5 || book.got.ViewingTime != "10:00" {
		t.Errorf("unexpected input %+v", book.got)
	}
}

func TestBookViewing_RejectsMalformedRequests(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		mutate func(m map[string]any)
	}{
		{"bad property id", "/properties/abc/book-viewing", func(map[string]any) {}},
		{"bad date", "/properties/9/book-viewing", func(m map[string]any) { m["viewing_date"] = "04/03/2030" }},
		{"bad clock", "/properties/9/book-viewing", func(m map[string]any) { m["viewing_time"] = "9:00" }},
		{"negative duration", "/properties/9/book-viewing", func(m map[string]any) { m["duration_minutes"] = -30 }},
		{"missing visitor", "/properties/9/book-viewing", func(m map[string]any) { delete(m, "visitor_name") }},
		{"bad email", "/properties/9/book-viewing", func(m map[string]any) { m["visitor_email"] = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &stubBooker{}
			r := viewingRouter(book, &stubTransition{})

			req := validBooking()
			tt.mutate(req)

			w := do(r, http.MethodPost, tt.path, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
			if got := decode(t, w)["error_code"]; got != domain.CodeInvalidRequest {
				t.Errorf("error_code = %v", got)
			}
		})
	}
}

func TestBookViewing_ErrorStatuses(t *testing.T) {
	details := &domain.ConflictDetails{PropertyID: 2, PropertyTitle: "Harbour Loft", TimeRange: "10:00 - 11:00"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrNotFound("property 9 not found"), http.StatusNotFound},
		{"no slot", domain.ErrSlotUnavailable("2030-03-04", "10:00"), http.StatusUnprocessableEntity},
		{"blocked", domain.ErrSlotBlocked("2030-03-04", "10:00"), http.StatusUnprocessableEntity},
		{"full", domain.ErrSlotFull("10:00", 1, 1), http.StatusConflict},
		{"double booked", domain.ErrDoubleBooked(details), http.StatusConflict},
		{"storage", &httperr.StorageError{Op: "create viewing", Err: errors.New("db down")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := viewingRouter(&stubBooker{err: tt.err}, &stubTransition{})

			w := do(r, http.MethodPost, "/properties/9/book-viewing", validBooking())
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestBookViewing_DoubleBookedCarriesDetails(t *testing.T) {
	details := &domain.ConflictDetails{PropertyID: 2, PropertyTitle: "Harbour Loft", TimeRange: "10:00 - 11:00"}
	r := viewingRouter(&stubBooker{err: domain.ErrDoubleBooked(details)}, &stubTransition{})

	w := do(r, http.MethodPost, "/properties/9/book-viewing", validBooking())
	body := decode(t, w)

	if body["error_code"] != domain.CodeBrokerDoubleBooked {
		t.Fatalf("error_code = %v", body["error_code"])
	}
	cd, ok := body["conflictDetails"].(map[string]any)
	if !ok {
		t.Fatalf("missing conflictDetails: %v", body)
	}
	if cd["propertyTitle"] != "Harbour Loft" || cd["timeRange"] != "10:00 - 11:00" {
		t.Errorf("unexpected details %v", cd)
	}
}

func TestViewingSlots(t *testing.T) {
	slots := &stubSlots{}
	h := NewViewingHandler(&stubBooker{}, slots, nil, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.GET("/properties/:propertyId/viewing-slots", h.ViewingSlots)

	if w := do(r, http.MethodGet, "/properties/9/viewing-slots?date=2030-03-04", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing broker_id: status = %d", w.Code)
	}

	w := do(r, http.MethodGet, "/properties/9/viewing-slots?broker_id=5&date=2030-03-04", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if slots.got.PropertyID != 9 || slots.got.BrokerID != 5 || slots.got.Date != "2030-03-04" {
		t.Errorf("unexpected input %+v", slots.got)
	}
	if decode(t, w)["total"] != float64(1) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestConfirmUsesAuthenticatedBroker(t *testing.T) {
	tr := &stubTransition{}
	r := viewingRouter(&stubBooker{}, tr)

	w := do(r, http.MethodPatch, "/me/viewings/42/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if tr.brokerID != 5 || tr.viewingID != 42 {
		t.Errorf("transition got broker %d viewing %d", tr.brokerID, tr.viewingID)
	}

	tr.err = httperr.ErrBusinessf(domain.CodeInvalidState, "viewing is cancelled")
	if w := do(r, http.MethodPatch, "/me/viewings/42/confirm", nil); w.Code != http.StatusConflict {
		t.Errorf("invalid state: status = %d", w.Code)
	}
}

func TestListMineRequiresDate(t *testing.T) {
	r := viewingRouter(&stubBooker{}, &stubTransition{})

	if w := do(r, http.MethodGet, "/me/viewings", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := do(r, http.MethodGet, "/me/viewings?date=2030-03-04", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRentalBulkUpdate(t *testing.T) {
	cal := &stubCalendar{}
	h := NewRentalCalendarHandler(cal, stubCalendarReader{}, zap.NewNop())

	r := gin.New()
	r.PUT("/rentals/:listingId/calendar", asBroker(3, models.RoleAdmin), h.BulkUpdate)
	r.GET("/rentals/:listingId/calendar", h.GetCalendar)

	w := do(r, http.MethodPut, "/rentals/11/calendar", map[string]any{
		"start_date":   "2030-06-01",
		"end_date":     "2030-06-03",
		"is_available": false,
		"nightly_rate": 150.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if cal.got.ListingID != 11 || cal.got.ActorID != 3 || !cal.got.IsAdmin {
		t.Errorf("unexpected input %+v", cal.got)
	}
	if cal.got.Patch.IsAvailable == nil || *cal.got.Patch.IsAvailable {
		t.Error("explicit false availability must reach the patch")
	}
	if cal.got.Patch.MinimumStay != nil {
		t.Error("unset fields must stay nil")
	}

	cal.err = httperr.ErrBusinessf(domainRental.CodeForbidden, "not yours")
	w = do(r, http.MethodPut, "/rentals/11/calendar", map[string]any{
		"start_date":   "2030-06-01",
		"end_date":     "2030-06-03",
		"is_available": true,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("forbidden: status = %d", w.Code)
	}

	cal.err = httperr.ErrBusinessf(domainRental.CodeInvalidRange, "reversed")
	w = do(r, http.MethodPut, "/rentals/11/calendar", map[string]any{
		"start_date":   "2030-06-03",
		"end_date":     "2030-06-01",
		"is_available": true,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid range: status = %d", w.Code)
	}

	if w := do(r, http.MethodGet, "/rentals/11/calendar?from=2030-06-01&to=2030-06-01", nil); w.Code != http.StatusOK {
		t.Errorf("get calendar: status = %d", w.Code)
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token, err := GenerateToken(&models.Broker{ID: 12, Role: models.RoleAdmin}, cfg.JWTSecret, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.BrokerID(c), "admin": middleware.IsAdmin(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := decode(t, w)
	if body["id"] != float64(12) || body["admin"] != true {
		t.Errorf("unexpected claims %v", body)
	}
}

func TestStatusForCode(t *testing.T) {
	if got := StatusForCode("something_new"); got != http.StatusBadRequest {
		t.Errorf("unknown code = %d", got)
	}
	if got := StatusForCode(domain.CodeSlotFull); got != http.StatusConflict {
		t.Errorf("slot_full = %d", got)
	}
}

func TestCreateBroker_RejectsUnresolvableEmailDomain(t *testing.T) {
	h := &AdminHandler{
		checkEmailDomain: func(_ context.Context, email string) error {
			return httperr.ErrBusinessf(validators.CodeInvalidEmailDomain, "email domain of %s does not accept mail", email)
		},
	}

	r := gin.New()
	r.POST("/admin/brokers", h.CreateBroker)

	w := do(r, http.MethodPost, "/admin/brokers", map[string]any{
		"name":     "Ana",
		"email":    "Ana@Nowhere.example",
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["error_code"]; got != validators.CodeInvalidEmailDomain {
		t.Errorf("error_code = %v", got)
	}
}
