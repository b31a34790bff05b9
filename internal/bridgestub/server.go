package bridgestub

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/passdesk/passdesk/internal/cards"
)

// maxHistoryEntries bounds per-card password history.
const maxHistoryEntries = 20

type profileRecord struct {
	cards.Profile
	masterPassword string
}

type cardRecord struct {
	cards.Card
	history []cards.HistoryEntry
}

type attachmentRecord struct {
	cards.Attachment
	content []byte
}

// Server holds the in-memory state behind the /invoke endpoint.
type Server struct {
	mu          sync.Mutex
	profiles    map[string]*profileRecord
	sessions    map[string]string // token -> profile ID
	workspaces  map[string]*cards.Workspace
	wsOwner     map[string]string // workspace ID -> profile ID
	folders     map[string]*cards.Folder
	cards       map[string]*cardRecord
	attachments map[string]*attachmentRecord
	backups     int
}

// New creates an empty stub backend.
func New() *Server {
	return &Server{
		profiles:    make(map[string]*profileRecord),
		sessions:    make(map[string]string),
		workspaces:  make(map[string]*cards.Workspace),
		wsOwner:     make(map[string]string),
		folders:     make(map[string]*cards.Folder),
		cards:       make(map[string]*cardRecord),
		attachments: make(map[string]*attachmentRecord),
	}
}

// Seed loads demo data: one profile ("demo" / "demo-master") with a
// workspace, a folder, and a couple of cards.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	profile := &profileRecord{
		Profile:        cards.Profile{ID: "demo", Name: "Demo", CreatedAt: now},
		masterPassword: "demo-master",
	}
	s.profiles[profile.ID] = profile

	ws := &cards.Workspace{ID: uuid.New().String(), Name: "Personal", CreatedAt: now, UpdatedAt: now}
	s.workspaces[ws.ID] = ws
	s.wsOwner[ws.ID] = profile.ID

	folder := &cards.Folder{ID: uuid.New().String(), WorkspaceID: ws.ID, Name: "Email", CreatedAt: now}
	s.folders[folder.ID] = folder

	for _, c := range []cards.Card{
		{Title: "Mail account", Username: "demo@example.com", Password: "hunter2", URL: "https://mail.example.com", FolderID: folder.ID, Favorite: true},
		{Title: "Bank", Username: "demo", Password: "correct horse", URL: "https://bank.example.com"},
	} {
		c.ID = uuid.New().String()
		c.WorkspaceID = ws.ID
		c.Version = 1
		c.CreatedAt = now
		c.UpdatedAt = now
		s.cards[c.ID] = &cardRecord{Card: c}
		ws.CardCount++
	}
}

// Router returns the HTTP surface the bridge client talks to.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/invoke", s.handleInvoke).Methods("POST")
	return r
}

type invokeRequest struct {
	Command   string          `json:"command"`
	RequestID string          `json:"request_id"`
	Args      json.RawMessage `json:"args"`
}

type invokeResponse struct {
	OK     bool          `json:"ok"`
	Result any           `json:"result,omitempty"`
	Error  *commandError `json:"error,omitempty"`
}

type commandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invokeResponse{OK: true, Result: result})
}

func writeError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(invokeResponse{OK: false, Error: &commandError{Code: code, Message: message}})
}

// openCommands may be invoked without a session.
var openCommands = map[string]bool{
	"profile_list":   true,
	"profile_create": true,
	"login_vault":    true,
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_request", "malformed invoke envelope")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profileID := ""
	if !openCommands[req.Command] {
		token := r.Header.Get("X-Session-Token")
		var ok bool
		profileID, ok = s.sessions[token]
		if !ok {
			writeError(w, "vault_locked", "no active session")
			return
		}
	}

	switch req.Command {
	case "profile_list":
		s.profileList(w)
	case "profile_create":
		s.profileCreate(w, req.Args)
	case "login_vault":
		s.loginVault(w, req.Args)
	case "logout_vault":
		s.logoutVault(w, r.Header.Get("X-Session-Token"))
	case "workspace_list":
		s.workspaceList(w, profileID)
	case "workspace_create":
		s.workspaceCreate(w, profileID, req.Args)
	case "workspace_rename":
		s.workspaceRename(w, profileID, req.Args)
	case "workspace_delete":
		s.workspaceDelete(w, profileID, req.Args)
	case "card_list":
		s.cardList(w, profileID, req.Args)
	case "card_get":
		s.cardGet(w, profileID, req.Args)
	case "card_create":
		s.cardCreate(w, profileID, req.Args)
	case "card_update":
		s.cardUpdate(w, profileID, req.Args)
	case "card_delete":
		s.cardDelete(w, profileID, req.Args)
	case "card_history":
		s.cardHistory(w, profileID, req.Args)
	case "folder_list":
		s.folderList(w, profileID, req.Args)
	case "folder_create":
		s.folderCreate(w, profileID, req.Args)
	case "folder_rename":
		s.folderRename(w, profileID, req.Args)
	case "folder_delete":
		s.folderDelete(w, profileID, req.Args)
	case "attachment_list":
		s.attachmentList(w, profileID, req.Args)
	case "attachment_upload":
		s.attachmentUpload(w, profileID, req.Args)
	case "attachment_download":
		s.attachmentDownload(w, profileID, req.Args)
	case "attachment_delete":
		s.attachmentDelete(w, profileID, req.Args)
	case "create_backup":
		s.createBackup(w)
	default:
		writeError(w, "unknown_command", fmt.Sprintf("unknown command %q", req.Command))
	}
}

func (s *Server) profileList(w http.ResponseWriter) {
	out := make([]cards.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Profile)
	}
	writeResult(w, out)
}

func (s *Server) profileCreate(w http.ResponseWriter, args json.RawMessage) {
	var in struct {
		Name           string `json:"name"`
		MasterPassword string `json:"master_password"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" || in.MasterPassword == "" {
		writeError(w, "bad_request", "name and master_password are required")
		return
	}
	p := &profileRecord{
		Profile:        cards.Profile{ID: uuid.New().String(), Name: in.Name, CreatedAt: time.Now().UTC()},
		masterPassword: in.MasterPassword,
	}
	s.profiles[p.ID] = p
	writeResult(w, p.Profile)
}

func (s *Server) loginVault(w http.ResponseWriter, args json.RawMessage) {
	var in struct {
		ProfileID      string `json:"profile_id"`
		MasterPassword string `json:"master_password"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "malformed login arguments")
		return
	}
	p, ok := s.profiles[in.ProfileID]
	if !ok || p.masterPassword != in.MasterPassword {
		writeError(w, "auth_failed", "unknown profile or wrong master password")
		return
	}
	token := uuid.New().String()
	s.sessions[token] = p.ID
	writeResult(w, map[string]string{"token": token, "profile_id": p.ID})
}

func (s *Server) logoutVault(w http.ResponseWriter, token string) {
	delete(s.sessions, token)
	writeResult(w, nil)
}

func (s *Server) workspaceList(w http.ResponseWriter, profileID string) {
	out := make([]cards.Workspace, 0)
	for id, ws := range s.workspaces {
		if s.wsOwner[id] == profileID {
			out = append(out, *ws)
		}
	}
	writeResult(w, out)
}

func (s *Server) workspaceCreate(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
		writeError(w, "bad_request", "name is required")
		return
	}
	now := time.Now().UTC()
	ws := &cards.Workspace{ID: uuid.New().String(), Name: in.Name, CreatedAt: now, UpdatedAt: now}
	s.workspaces[ws.ID] = ws
	s.wsOwner[ws.ID] = profileID
	writeResult(w, ws)
}

func (s *Server) ownedWorkspace(profileID, id string) (*cards.Workspace, bool) {
	ws, ok := s.workspaces[id]
	if !ok || s.wsOwner[id] != profileID {
		return nil, false
	}
	return ws, true
}

func (s *Server) workspaceRename(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
		writeError(w, "bad_request", "id and name are required")
		return
	}
	ws, ok := s.ownedWorkspace(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	ws.Name = in.Name
	ws.UpdatedAt = time.Now().UTC()
	writeResult(w, nil)
}

func (s *Server) workspaceDelete(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	if _, ok := s.ownedWorkspace(profileID, in.ID); !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	for id, c := range s.cards {
		if c.WorkspaceID == in.ID {
			for aid, a := range s.attachments {
				if a.CardID == id {
					delete(s.attachments, aid)
				}
			}
			delete(s.cards, id)
		}
	}
	for id, f := range s.folders {
		if f.WorkspaceID == in.ID {
			delete(s.folders, id)
		}
	}
	delete(s.workspaces, in.ID)
	delete(s.wsOwner, in.ID)
	writeResult(w, nil)
}

func (s *Server) cardList(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		WorkspaceID string `json:"workspace_id"`
		FolderID    string `json:"folder_id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "workspace_id is required")
		return
	}
	if _, ok := s.ownedWorkspace(profileID, in.WorkspaceID); !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	out := make([]cards.Card, 0)
	for _, c := range s.cards {
		if c.WorkspaceID != in.WorkspaceID {
			continue
		}
		if in.FolderID != "" && c.FolderID != in.FolderID {
			continue
		}
		listed := c.Card
		// secrets are only returned by card_get
		listed.Password = ""
		out = append(out, listed)
	}
	writeResult(w, out)
}

func (s *Server) ownedCard(profileID, id string) (*cardRecord, bool) {
	c, ok := s.cards[id]
	if !ok || s.wsOwner[c.WorkspaceID] != profileID {
		return nil, false
	}
	return c, true
}

func (s *Server) cardGet(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	c, ok := s.ownedCard(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	writeResult(w, c.Card)
}

func (s *Server) cardCreate(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in cards.Card
	if err := json.Unmarshal(args, &in); err != nil || in.Title == "" || in.WorkspaceID == "" {
		writeError(w, "bad_request", "title and workspace_id are required")
		return
	}
	ws, ok := s.ownedWorkspace(profileID, in.WorkspaceID)
	if !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	if in.FolderID != "" {
		f, ok := s.folders[in.FolderID]
		if !ok || f.WorkspaceID != in.WorkspaceID {
			writeError(w, "not_found", "no such folder")
			return
		}
	}
	now := time.Now().UTC()
	in.ID = uuid.New().String()
	in.Version = 1
	in.CreatedAt = now
	in.UpdatedAt = now
	s.cards[in.ID] = &cardRecord{Card: in}
	ws.CardCount++
	ws.UpdatedAt = now
	writeResult(w, in)
}

func (s *Server) cardUpdate(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in cards.Card
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "malformed card")
		return
	}
	c, ok := s.ownedCard(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	if in.Version != c.Version {
		writeError(w, "version_conflict",
			fmt.Sprintf("card changed since it was loaded (have %d, want %d)", in.Version, c.Version))
		return
	}
	now := time.Now().UTC()
	if in.Password != c.Password && c.Password != "" {
		c.history = append([]cards.HistoryEntry{{Password: c.Password, ChangedAt: now}}, c.history...)
		if len(c.history) > maxHistoryEntries {
			c.history = c.history[:maxHistoryEntries]
		}
	}
	in.WorkspaceID = c.WorkspaceID
	in.Version = c.Version + 1
	in.CreatedAt = c.CreatedAt
	in.UpdatedAt = now
	c.Card = in
	if ws, ok := s.workspaces[c.WorkspaceID]; ok {
		ws.UpdatedAt = now
	}
	writeResult(w, c.Card)
}

func (s *Server) cardDelete(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	c, ok := s.ownedCard(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	for aid, a := range s.attachments {
		if a.CardID == in.ID {
			delete(s.attachments, aid)
		}
	}
	delete(s.cards, in.ID)
	if ws, ok := s.workspaces[c.WorkspaceID]; ok {
		ws.CardCount--
		ws.UpdatedAt = time.Now().UTC()
	}
	writeResult(w, nil)
}

func (s *Server) cardHistory(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	c, ok := s.ownedCard(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	out := c.history
	if out == nil {
		out = []cards.HistoryEntry{}
	}
	writeResult(w, out)
}

func (s *Server) folderList(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		WorkspaceID string `json:"workspace_id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "workspace_id is required")
		return
	}
	if _, ok := s.ownedWorkspace(profileID, in.WorkspaceID); !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	out := make([]cards.Folder, 0)
	for _, f := range s.folders {
		if f.WorkspaceID == in.WorkspaceID {
			out = append(out, *f)
		}
	}
	writeResult(w, out)
}

func (s *Server) folderCreate(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		WorkspaceID string `json:"workspace_id"`
		Name        string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
		writeError(w, "bad_request", "workspace_id and name are required")
		return
	}
	if _, ok := s.ownedWorkspace(profileID, in.WorkspaceID); !ok {
		writeError(w, "not_found", "no such workspace")
		return
	}
	f := &cards.Folder{ID: uuid.New().String(), WorkspaceID: in.WorkspaceID, Name: in.Name, CreatedAt: time.Now().UTC()}
	s.folders[f.ID] = f
	writeResult(w, f)
}

func (s *Server) ownedFolder(profileID, id string) (*cards.Folder, bool) {
	f, ok := s.folders[id]
	if !ok || s.wsOwner[f.WorkspaceID] != profileID {
		return nil, false
	}
	return f, true
}

func (s *Server) folderRename(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
		writeError(w, "bad_request", "id and name are required")
		return
	}
	f, ok := s.ownedFolder(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such folder")
		return
	}
	f.Name = in.Name
	writeResult(w, nil)
}

func (s *Server) folderDelete(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	if _, ok := s.ownedFolder(profileID, in.ID); !ok {
		writeError(w, "not_found", "no such folder")
		return
	}
	// cards fall back to the workspace root
	for _, c := range s.cards {
		if c.FolderID == in.ID {
			c.FolderID = ""
		}
	}
	delete(s.folders, in.ID)
	writeResult(w, nil)
}

func (s *Server) attachmentList(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		CardID string `json:"card_id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "card_id is required")
		return
	}
	if _, ok := s.ownedCard(profileID, in.CardID); !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	out := make([]cards.Attachment, 0)
	for _, a := range s.attachments {
		if a.CardID == in.CardID {
			out = append(out, a.Attachment)
		}
	}
	writeResult(w, out)
}

func (s *Server) attachmentUpload(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		CardID  string `json:"card_id"`
		Name    string `json:"name"`
		Content string `json:"content_base64"`
	}
	if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
		writeError(w, "bad_request", "card_id, name, and content are required")
		return
	}
	if _, ok := s.ownedCard(profileID, in.CardID); !ok {
		writeError(w, "not_found", "no such card")
		return
	}
	content, err := base64.StdEncoding.DecodeString(in.Content)
	if err != nil {
		writeError(w, "bad_request", "content is not valid base64")
		return
	}
	a := &attachmentRecord{
		Attachment: cards.Attachment{
			ID:        uuid.New().String(),
			CardID:    in.CardID,
			Name:      in.Name,
			Size:      int64(len(content)),
			CreatedAt: time.Now().UTC(),
		},
		content: content,
	}
	s.attachments[a.ID] = a
	writeResult(w, a.Attachment)
}

func (s *Server) ownedAttachment(profileID, id string) (*attachmentRecord, bool) {
	a, ok := s.attachments[id]
	if !ok {
		return nil, false
	}
	if _, ok := s.ownedCard(profileID, a.CardID); !ok {
		return nil, false
	}
	return a, true
}

func (s *Server) attachmentDownload(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	a, ok := s.ownedAttachment(profileID, in.ID)
	if !ok {
		writeError(w, "not_found", "no such attachment")
		return
	}
	writeResult(w, map[string]string{
		"name":           a.Name,
		"content_base64": base64.StdEncoding.EncodeToString(a.content),
	})
}

func (s *Server) attachmentDelete(w http.ResponseWriter, profileID string, args json.RawMessage) {
	var in struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		writeError(w, "bad_request", "id is required")
		return
	}
	if _, ok := s.ownedAttachment(profileID, in.ID); !ok {
		writeError(w, "not_found", "no such attachment")
		return
	}
	delete(s.attachments, in.ID)
	writeResult(w, nil)
}

func (s *Server) createBackup(w http.ResponseWriter) {
	s.backups++
	writeResult(w, map[string]string{
		"path": fmt.Sprintf("/tmp/passdesk-backup-%d.bak", s.backups),
	})
}
