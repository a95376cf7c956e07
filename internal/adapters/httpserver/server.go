package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gadgetwall/backoffice/internal/domain"
	"github.com/gadgetwall/backoffice/internal/usecase"
)

type Server struct {
	mux       *http.ServeMux
	catalog   *usecase.CatalogUC
	importer  *usecase.ImportUC
	orders    *usecase.OrderUC
	assistant *usecase.AssistantUC
	leads     *usecase.LeadsUC
	auth      *usecase.AuthUC
}

func New(catalog *usecase.CatalogUC, importer *usecase.ImportUC, orders *usecase.OrderUC, assistant *usecase.AssistantUC, leads *usecase.LeadsUC, auth *usecase.AuthUC) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		catalog:   catalog,
		importer:  importer,
		orders:    orders,
		assistant: assistant,
		leads:     leads,
		auth:      auth,
	}
	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("/api/auth/signup", s.apiSignup)
	s.mux.HandleFunc("/api/auth/login", s.apiLogin)
	s.mux.HandleFunc("/api/auth/logout", s.apiLogout)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/lookup", s.apiProductLookup)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)

	s.mux.HandleFunc("/api/categories", s.apiCategories)
	s.mux.HandleFunc("/api/categories/", s.apiCategoryByName)

	s.mux.HandleFunc("/api/import/csv", s.apiImportCSV)
	s.mux.HandleFunc("/api/import/confirm", s.apiImportConfirm)
	s.mux.HandleFunc("/api/export/csv", s.apiExportCSV)
	s.mux.HandleFunc("/api/export/xlsx", s.apiExportXLSX)

	s.mux.HandleFunc("/api/orders", s.apiOrders)
	s.mux.HandleFunc("/api/orders/", s.apiOrderByID)

	s.mux.HandleFunc("/api/chat", s.apiChat)
	s.mux.HandleFunc("/api/chat/reset", s.apiChatReset)
	s.mux.HandleFunc("/api/leads/discover", s.apiLeadsDiscover)
	s.mux.HandleFunc("/api/prompt", s.apiPrompt)
}

// --- auth & sessions ---

type sessionUser struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	ChatID string `json:"chatId"`
}

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteStrictMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteStrictMode})
}

func readUserSession(r *http.Request) *sessionUser {
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	if u.Email == "" {
		return nil
	}
	return &u
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *sessionUser {
	u := readUserSession(r)
	if u == nil {
		http.Error(w, "unauthorized", 401)
		return nil
	}
	return u
}

func (s *Server) apiSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	u, err := s.auth.Signup(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			http.Error(w, "email already registered", 409)
			return
		}
		http.Error(w, err.Error(), 400)
		return
	}
	writeUserSession(w, &sessionUser{Email: u.Email, Name: u.Name, ChatID: uuid.New().String()})
	writeJSON(w, 201, u)
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	u, err := s.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		http.Error(w, "invalid email or password", 401)
		return
	}
	writeUserSession(w, &sessionUser{Email: u.Email, Name: u.Name, ChatID: uuid.New().String()})
	writeJSON(w, 200, u)
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if u := readUserSession(r); u != nil && u.ChatID != "" {
		s.assistant.Reset(u.ChatID)
	}
	writeUserSession(w, nil)
	writeJSON(w, 200, map[string]bool{"ok": true})
}

// --- products ---

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		f := domain.ProductFilter{
			Query:    q.Get("q"),
			Category: q.Get("category"),
			Page:     atoiDefault(q.Get("page"), 1),
			PageSize: atoiDefault(q.Get("pageSize"), 50),
		}
		list, total, err := s.catalog.List(r.Context(), f)
		if err != nil {
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total, "page": f.Page, "pageSize": f.PageSize})
	case http.MethodPost:
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if strings.TrimSpace(p.Name) == "" {
			http.Error(w, "name required", 400)
			return
		}
		if err := s.catalog.Create(r.Context(), &p); err != nil {
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 201, p)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiProductLookup(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	p, err := s.catalog.LookupSerial(r.Context(), r.URL.Query().Get("serial"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", 404)
			return
		}
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, p)
}

// apiProductByID handles /api/products/{id} and /api/products/{id}/inbound.
func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	if len(parts) == 2 && parts[1] == "inbound" {
		s.apiProductInbound(w, r, id)
		return
	}
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.catalog.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodPut:
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "json", 400)
			return
		}
		p.ID = id
		if err := s.catalog.Update(r.Context(), &p); err != nil {
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		if err := s.catalog.Delete(r.Context(), id); err != nil {
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 200, map[string]bool{"ok": true})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiProductInbound(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Scanned []string `json:"scanned"`
		Bulk    string   `json:"bulk"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	serials := usecase.MergeSerialInput(in.Scanned, in.Bulk)
	p, err := s.catalog.AddSerials(r.Context(), id, serials)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoProduct):
			http.Error(w, err.Error(), 404)
		case errors.Is(err, usecase.ErrNoSerials):
			http.Error(w, err.Error(), 400)
		default:
			http.Error(w, "err", 500)
		}
		return
	}
	writeJSON(w, 200, p)
}

// --- categories ---

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.catalog.ListCategories(r.Context())
		if err != nil {
			http.Error(w, "err", 500)
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPost:
		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "json", 400)
			return
		}
		c, err := s.catalog.AddCategory(r.Context(), in.Name)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				http.Error(w, "category already exists", 409)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 201, c)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiCategoryByName(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if err := s.catalog.RenameCategory(r.Context(), name, in.Name); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 200, map[string]bool{"ok": true})
	case http.MethodDelete:
		if err := s.catalog.DeleteCategory(r.Context(), name); err != nil {
			switch {
			case errors.Is(err, domain.ErrCategoryInUse):
				http.Error(w, err.Error(), 409)
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "not found", 404)
			default:
				http.Error(w, "err", 500)
			}
			return
		}
		writeJSON(w, 200, map[string]bool{"ok": true})
	default:
		http.Error(w, "method", 405)
	}
}

// --- orders ---

func (s *Server) apiOrders(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	list, err := s.orders.List(r.Context())
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, list)
}

// apiOrderByID handles /api/orders/{id}/invoice.
func (s *Server) apiOrderByID(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "invoice" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	inv, err := s.orders.Invoice(r.Context(), parts[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not found", 404)
			return
		}
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, inv)
}

// --- assistant & leads ---

func (s *Server) apiChat(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		http.Error(w, "message required", 400)
		return
	}
	sessionID := u.ChatID
	if sessionID == "" {
		sessionID = u.Email
	}
	reply, err := s.assistant.Send(r.Context(), sessionID, in.Message)
	if err != nil {
		log.Error().Err(err).Msg("chat")
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, reply)
}

func (s *Server) apiChatReset(w http.ResponseWriter, r *http.Request) {
	u := s.requireUser(w, r)
	if u == nil {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	sessionID := u.ChatID
	if sessionID == "" {
		sessionID = u.Email
	}
	s.assistant.Reset(sessionID)
	writeJSON(w, 200, map[string]bool{"ok": true})
}

func (s *Server) apiLeadsDiscover(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Query string `json:"query"`
		Lang  string `json:"lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Query) == "" {
		http.Error(w, "query required", 400)
		return
	}
	leads, err := s.leads.Discover(r.Context(), in.Query, in.Lang)
	if err != nil {
		log.Error().Err(err).Msg("lead discovery")
		writeJSON(w, 502, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, 200, map[string]any{"leads": leads})
}

func (s *Server) apiPrompt(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	prompt, err := s.assistant.SystemPrompt(r.Context())
	if err != nil {
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, map[string]string{"prompt": prompt})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
