package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/account"
	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
	"github.com/AyishaBeevi/ab-backend/internal/token"
)

type memUsers struct {
	byID map[primitive.ObjectID]*models.User
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Insert(_ context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) SetRole(_ context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, primitive.ObjectID, string, string, primitive.ObjectID, map[string]any) {
}

func newTestRouter() (*gin.Engine, *memUsers) {
	gin.SetMode(gin.TestMode)
	users := &memUsers{byID: map[primitive.ObjectID]*models.User{}}
	issuer := token.NewIssuer("test-secret", time.Hour)
	log := zap.NewNop()

	r := gin.New()
	deps := Deps{
		Accounts: account.NewService(users, issuer, nopAudit{}, log),
		Verifier: issuer,
		Users:    users,
		Log:      log,
	}
	Mount(r, deps)
	Mount(r.Group("/api"), deps)
	return r, users
}

func perform(r http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAuthFlow(t *testing.T) {
	r, _ := newTestRouter()

	rec := perform(r, http.MethodPost, "/auth/register", `{"name":"Ana","email":"ana@example.com","password":"pw123456"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["role"] != models.RoleUser || user["email"] != "ana@example.com" {
		t.Fatalf("unexpected user: %v", user)
	}

	rec = perform(r, http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@example.com","password":"x"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Email already registered" {
		t.Fatalf("unexpected message %v", msg)
	}

	rec = perform(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad login: expected 400, got %d", rec.Code)
	}

	rec = perform(r, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"pw123456"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	raw, _ := decode(t, rec)["token"].(string)
	if raw == "" {
		t.Fatal("expected token")
	}

	rec = perform(r, http.MethodGet, "/api/auth/me", "", raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	me := decode(t, rec)["user"].(map[string]any)
	if _, leaked := me["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, users := newTestRouter()
	issuer := token.NewIssuer("test-secret", time.Hour)

	agent := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent}
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	users.byID[agent.ID] = agent
	users.byID[admin.ID] = admin
	agentToken, _ := issuer.Sign(agent.ID)
	adminToken, _ := issuer.Sign(admin.ID)

	if rec := perform(r, http.MethodGet, "/admin/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := perform(r, http.MethodGet, "/api/admin/users", "", agentToken); rec.Code != http.StatusForbidden {
		t.Fatalf("agent: expected 403, got %d", rec.Code)
	}
	if rec := perform(r, http.MethodGet, "/admin/users", "", adminToken); rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}

	rec := perform(r, http.MethodDelete, "/users/"+admin.ID.Hex(), "", adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self delete: expected 400, got %d", rec.Code)
	}

	rec = perform(r, http.MethodPatch, "/users/"+agent.ID.Hex()+"/role", `{"role":"admin"}`, adminToken)
	if rec.Code != http.StatusOK || users.byID[agent.ID].Role != models.RoleAdmin {
		t.Fatalf("role change: got %d, role %s", rec.Code, users.byID[agent.ID].Role)
	}
}

func TestContactSubmitValidatesBody(t *testing.T) {
	r, _ := newTestRouter()

	rec := perform(r, http.MethodPost, "/contact", `{"name":"Bo"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "validation failed" {
		t.Fatalf("unexpected body %v", body)
	}
	details, _ := body["details"].([]any)
	if len(details) != 2 {
		t.Fatalf("expected contact and message to be reported, got %v", details)
	}
}

func TestRespondWithErrorHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondWithError(c, zap.NewNop(), "TEST", apperr.Internal(errors.New("mongo: connection reset")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}
