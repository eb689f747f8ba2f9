package familymember

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carevault/carevault/internal/platform/auth"
)

func newTestContext(method, path, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Create(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	userID := uuid.New()

	c, rec := newTestContext(http.MethodPost, "/api/v1/family-members",
		`{"name":"Rosa","relation":"mother","bloodGroup":"A+"}`, userID)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var got FamilyMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.UserID != userID {
		t.Error("member must be bound to the authenticated user")
	}
}

func TestHandler_Create_OwnerOverrideIgnored(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)
	userID := uuid.New()

	c, rec := newTestContext(http.MethodPost, "/api/v1/family-members",
		`{"name":"Rosa","relation":"mother","userId":"`+uuid.NewString()+`"}`, userID)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var got FamilyMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.UserID != userID {
		t.Error("client-supplied owner must be overridden by the session identity")
	}
}

func TestHandler_List_Empty(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, rec := newTestContext(http.MethodGet, "/api/v1/family-members", "", uuid.New())
	if err := h.List(c); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandler_Get_Foreign(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)

	fm := &FamilyMember{UserID: uuid.New(), Name: "Rosa", Relation: "mother"}
	if err := svc.Create(context.Background(), fm); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	c, _ := newTestContext(http.MethodGet, "/api/v1/family-members/"+fm.ID.String(), "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(fm.ID.String())

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign member, got %v", err)
	}
}

func TestHandler_Delete(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)
	userID := uuid.New()

	fm := &FamilyMember{UserID: userID, Name: "Rosa", Relation: "mother"}
	if err := svc.Create(context.Background(), fm); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	c, rec := newTestContext(http.MethodDelete, "/api/v1/family-members/"+fm.ID.String(), "", userID)
	c.SetParamNames("id")
	c.SetParamValues(fm.ID.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
