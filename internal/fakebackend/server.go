// Package fakebackend is an in-process stand-in for the Photobooth web
// backend. It implements the JSON routes the client talks to and records
// every request, so tests can drive the real HTTP client end to end.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/photobooth/internal/client/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const sessionCookie = "session"

const maxUploadSize = 32 << 20

var allowedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".heic": {}, ".webp": {},
}

type Folder struct {
	ID       string
	Name     string
	Token    string
	QRActive bool
}

type Photo struct {
	ID          int64
	FolderID    string
	Name        string
	ContentType string
	Data        []byte
	ShareToken  string
}

// Request is a recorded incoming request.
type Request struct {
	Method    string
	Path      string
	Accept    string
	RequestID string
	Form      map[string]string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	mu       sync.Mutex
	router   *mux.Router
	session  string
	user     models.User
	folders  map[string]*Folder
	photos   map[int64]*Photo
	nextID   int64
	requests []Request
	failures map[string]failure

	httpSrv *httptest.Server
}

// New returns a backend that accepts the given session cookie value as a
// logged-in user. An empty session means nobody is logged in.
func New(session string) *Server {
	s := &Server{
		session:  session,
		user:     models.User{ID: 1, Name: "Booth Owner", Email: "owner@example.com"},
		folders:  make(map[string]*Folder),
		photos:   make(map[int64]*Photo),
		failures: make(map[string]failure),
	}

	r := mux.NewRouter()
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/check_auth", s.handleCheckAuth).Methods(http.MethodGet)
	r.HandleFunc("/photo/delete/{id}", s.requireLogin(s.handleDeletePhoto)).Methods(http.MethodGet)
	r.HandleFunc("/photo/share/{id}", s.requireLogin(s.handleSharePhoto)).Methods(http.MethodGet)
	r.HandleFunc("/photo/download/{id}", s.requireLogin(s.handleDownloadPhoto)).Methods(http.MethodGet)
	r.HandleFunc("/folder/delete/{id}", s.requireLogin(s.handleDeleteFolder)).Methods(http.MethodGet)
	r.HandleFunc("/folder/deactivate_qr/{id}", s.requireLogin(s.handleDeactivateQR)).Methods(http.MethodGet)
	r.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><body>login</body></html>")
	})
	r.Use(s.record)
	s.router = r

	return s
}

// Start serves the backend on a local listener and returns its base URL.
func (s *Server) Start() string {
	s.httpSrv = httptest.NewServer(s)
	return s.httpSrv.URL
}

func (s *Server) Close() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f, ok := s.failures[r.URL.Path]
	if ok {
		delete(s.failures, r.URL.Path)
	}
	s.mu.Unlock()

	if ok {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
		return
	}
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request to urlPath answer with status and a raw body.
func (s *Server) FailNext(urlPath string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[urlPath] = failure{status: status, body: body}
}

func (s *Server) AddFolder(id, name, token string) *Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &Folder{ID: id, Name: name, Token: token, QRActive: true}
	s.folders[id] = f
	return f
}

// AddPhoto stores a photo directly and returns its id.
func (s *Server) AddPhoto(folderID, name string, data []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPhotoLocked(folderID, name, "image/jpeg", data)
}

func (s *Server) addPhotoLocked(folderID, name, ct string, data []byte) int64 {
	s.nextID++
	s.photos[s.nextID] = &Photo{ID: s.nextID, FolderID: folderID, Name: name, ContentType: ct, Data: data}
	return s.nextID
}

func (s *Server) Photo(id int64) (Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return Photo{}, false
	}
	return *p, true
}

func (s *Server) Folder(id string) (Folder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok {
		return Folder{}, false
	}
	return *f, true
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Accept:    r.Header.Get("Accept"),
			RequestID: r.Header.Get("X-Request-ID"),
		}
		s.mu.Lock()
		idx := len(s.requests)
		s.requests = append(s.requests, rec)
		s.mu.Unlock()

		next.ServeHTTP(w, r)

		if r.MultipartForm != nil {
			form := make(map[string]string)
			for k, v := range r.MultipartForm.Value {
				if len(v) > 0 {
					form[k] = v[0]
				}
			}
			s.mu.Lock()
			s.requests[idx].Form = form
			s.mu.Unlock()
		}
	})
}

func (s *Server) loggedIn(r *http.Request) bool {
	if s.session == "" {
		return false
	}
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == s.session
}

func (s *Server) requireLogin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.loggedIn(r) {
			http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusFound)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func uploadError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func actionError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		uploadError(w, http.StatusBadRequest, "No file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		uploadError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		uploadError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if _, ok := allowedExtensions[strings.ToLower(path.Ext(header.Filename))]; !ok {
		uploadError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	folderID := r.FormValue("folder_id")
	if folderID == "" {
		uploadError(w, http.StatusBadRequest, "No folder specified")
		return
	}

	s.mu.Lock()
	folder, ok := s.folders[folderID]
	s.mu.Unlock()
	if !ok {
		uploadError(w, http.StatusNotFound, "Folder not found")
		return
	}

	if !s.loggedIn(r) {
		token := r.FormValue("token")
		if token == "" || token != folder.Token {
			uploadError(w, http.StatusForbidden, "Invalid upload token")
			return
		}
		if !folder.QRActive {
			uploadError(w, http.StatusForbidden, "This QR code has been deactivated and can no longer be used for uploads")
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		uploadError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	s.mu.Lock()
	id := s.addPhotoLocked(folderID, header.Filename, header.Header.Get("Content-Type"), data)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "File uploaded successfully",
		"photo_id":  id,
		"file_name": header.Filename,
		"file_size": len(data),
		"file_url":  fmt.Sprintf("/photo/view/%d", id),
	})
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	if !s.loggedIn(r) {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, models.AuthStatus{Authenticated: true, User: &s.user})
}

func (s *Server) photoFromVars(w http.ResponseWriter, r *http.Request) (*Photo, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		actionError(w, http.StatusNotFound, "Photo not found.")
		return nil, false
	}
	p, ok := s.photos[id]
	if !ok {
		actionError(w, http.StatusNotFound, "Photo not found.")
		return nil, false
	}
	return p, true
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photoFromVars(w, r)
	if !ok {
		return
	}
	delete(s.photos, p.ID)
	writeJSON(w, http.StatusOK, models.ActionResult{Success: true, Message: "Photo deleted successfully."})
}

func (s *Server) handleSharePhoto(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photoFromVars(w, r)
	if !ok {
		return
	}
	if p.ShareToken == "" {
		p.ShareToken = uuid.NewString()
	}
	writeJSON(w, http.StatusOK, models.ActionResult{
		Success:  true,
		ShareURL: "http://" + r.Host + "/shared/" + p.ShareToken,
	})
}

func (s *Server) handleDownloadPhoto(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.photoFromVars(w, r)
	var data []byte
	var name, ct string
	if ok {
		data, name, ct = p.Data, p.Name, p.ContentType
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := mux.Vars(r)["id"]
	if _, ok := s.folders[id]; !ok {
		actionError(w, http.StatusNotFound, "Folder not found.")
		return
	}
	delete(s.folders, id)
	for pid, p := range s.photos {
		if p.FolderID == id {
			delete(s.photos, pid)
		}
	}
	writeJSON(w, http.StatusOK, models.ActionResult{Success: true, Message: "Folder deleted successfully."})
}

func (s *Server) handleDeactivateQR(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[mux.Vars(r)["id"]]
	if !ok {
		actionError(w, http.StatusNotFound, "Folder not found.")
		return
	}
	f.QRActive = false
	writeJSON(w, http.StatusOK, models.ActionResult{Success: true, Message: "QR code deactivated successfully."})
}
