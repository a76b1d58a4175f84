package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/courtsidehq/courtside/internal/storage"
	"github.com/courtsidehq/courtside/internal/tournament"
	"github.com/courtsidehq/courtside/internal/tournament/domain"
	"github.com/courtsidehq/courtside/internal/tournament/service"
)

// baseResponse is the wire shape of a tournament base.
type baseResponse struct {
	ID           string `json:"id"`
	Version      int64  `json:"version,omitempty"`
	Name         string `json:"name"`
	SportID      string `json:"sportId"`
	EntrantCount int    `json:"entrantCount"`
	Type         string `json:"type"`
	Mode         string `json:"mode"`
	RoundCount   int    `json:"roundCount,omitempty"`
	State        string `json:"state"`
	ActiveStage  int    `json:"activeStage,omitempty"`
}

// stageResponse is the wire shape of a stage.
type stageResponse struct {
	ID         string `json:"id"`
	Version    int64  `json:"version,omitempty"`
	Number     int    `json:"number"`
	GroupCount int    `json:"groupCount"`
	Name       string `json:"name,omitempty"`
}

// structureResponse is the wire shape of a reachable tournament structure.
type structureResponse struct {
	Base   baseResponse    `json:"base"`
	Stages []stageResponse `json:"stages"`
}

type createTournamentRequest struct {
	Name         string `json:"name"`
	SportID      string `json:"sportId"`
	EntrantCount int    `json:"entrantCount"`
	Type         string `json:"type"`
	Mode         string `json:"mode"`
	RoundCount   int    `json:"roundCount"`
}

// CreateTournament mints a new tournament, persists it and returns the
// resulting structure.
func (s *Server) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sportID, err := uuid.Parse(req.SportID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sportId must be a valid uuid")
		return
	}

	svc := service.NewEditorService(s.store, s.publisher)
	editor := svc.Editor()
	editor.NewBase(sportID)
	local := editor.Local()
	_ = local.SetBaseName(req.Name)
	_ = local.SetBaseEntrantCount(req.EntrantCount)
	_ = local.SetBaseMode(domain.ParseMode(req.Mode, req.RoundCount))
	if req.Type != "" {
		if base, ok := local.Base(); ok {
			base.Type = domain.ParseType(req.Type)
			local.SetBase(base)
		}
	}

	if _, err := svc.Save(r.Context()); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, structureOf(editor))
}

// GetTournament returns the reachable structure of a persisted tournament.
func (s *Server) GetTournament(w http.ResponseWriter, r *http.Request) {
	_, editor, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, structureOf(editor))
}

type updateTournamentRequest struct {
	Name         *string `json:"name"`
	EntrantCount *int    `json:"entrantCount"`
	Mode         *string `json:"mode"`
	RoundCount   int     `json:"roundCount"`
	State        *string `json:"state"`
	ActiveStage  int     `json:"activeStage"`
}

// UpdateTournament applies partial base edits and persists them.
func (s *Server) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	var req updateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	svc, editor, ok := s.load(w, r)
	if !ok {
		return
	}

	local := editor.Local()
	if req.Name != nil {
		_ = local.SetBaseName(*req.Name)
	}
	if req.EntrantCount != nil {
		_ = local.SetBaseEntrantCount(*req.EntrantCount)
	}
	if req.Mode != nil {
		_ = local.SetBaseMode(domain.ParseMode(*req.Mode, req.RoundCount))
	}
	if req.State != nil {
		_ = local.SetBaseState(domain.ParseState(*req.State, req.ActiveStage))
	}

	if _, err := svc.Save(r.Context()); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structureOf(editor))
}

type upsertStageRequest struct {
	GroupCount int `json:"groupCount"`
}

// UpsertStage ensures a stage exists at the given position, optionally
// updating its group count, and persists the result.
func (s *Server) UpsertStage(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 0 {
		writeError(w, http.StatusBadRequest, "stage number must be a non-negative integer")
		return
	}
	var req upsertStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svc, editor, ok := s.load(w, r)
	if !ok {
		return
	}
	if err := editor.NewStage(number); err != nil {
		writeStageError(w, err)
		return
	}
	if req.GroupCount > 0 {
		if stageID, found := editor.ActiveStageID(); found {
			_ = editor.Local().SetStageGroupCount(stageID, req.GroupCount)
		}
	}

	if _, err := svc.Save(r.Context()); err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structureOf(editor))
}

// validationResponse carries advisory validation errors.
type validationResponse struct {
	Valid  bool               `json:"valid"`
	Errors []validationDetail `json:"errors,omitempty"`
}

type validationDetail struct {
	ObjectID string `json:"objectId,omitempty"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message,omitempty"`
}

// GetValidation validates the loaded tournament and returns every error
// found across the reachable structure.
func (s *Server) GetValidation(w http.ResponseWriter, r *http.Request) {
	_, editor, ok := s.load(w, r)
	if !ok {
		return
	}
	errs := editor.Validate()
	resp := validationResponse{Valid: len(errs) == 0}
	for _, fe := range errs {
		detail := validationDetail{Field: fe.Field, Code: fe.Code, Message: fe.Message}
		if fe.ObjectID != uuid.Nil {
			detail.ObjectID = fe.ObjectID.String()
		}
		resp.Errors = append(resp.Errors, detail)
	}
	writeJSON(w, http.StatusOK, resp)
}

// navigationResponse reports whether a requested stage/group path is valid
// and, when it is not, the prefix that still is.
type navigationResponse struct {
	Valid       bool  `json:"valid"`
	ValidPrefix []int `json:"validPrefix"`
}

// GetNavigation checks a deep-link path (stage and group query params)
// against the current structure so clients can clamp navigation targets.
func (s *Server) GetNavigation(w http.ResponseWriter, r *http.Request) {
	_, editor, ok := s.load(w, r)
	if !ok {
		return
	}
	stageNumber, err := queryNumber(r, "stage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "stage must be a non-negative integer")
		return
	}
	groupNumber, err := queryNumber(r, "group")
	if err != nil {
		writeError(w, http.StatusBadRequest, "group must be a non-negative integer")
		return
	}

	prefix, valid := editor.ValidateObjectNumbers(stageNumber, groupNumber)
	resp := navigationResponse{Valid: valid, ValidPrefix: prefix}
	if valid {
		resp.ValidPrefix = []int{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// load builds a request-scoped editor service and pulls the addressed
// tournament into it.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*service.EditorService, *tournament.Editor, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "tournament id must be a valid uuid")
		return nil, nil, false
	}
	svc := service.NewEditorService(s.store, s.publisher)
	if err := svc.Load(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tournament not found")
			return nil, nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return svc, svc.Editor(), true
}

// structureOf renders the reachable structure of the editor's local side.
func structureOf(editor *tournament.Editor) structureResponse {
	resp := structureResponse{Stages: []stageResponse{}}
	base, ok := editor.Base()
	if !ok {
		return resp
	}
	resp.Base = renderBase(base)

	for number := 0; number < base.Mode.StageCount(); number++ {
		stage, found := editor.Local().StageByNumber(number)
		if !found {
			continue
		}
		sr := stageResponse{Number: stage.Number, GroupCount: stage.GroupCount}
		if id, hasID := stage.Identity.ID(); hasID {
			sr.ID = id.String()
		}
		if version, persisted := stage.Identity.Version(); persisted {
			sr.Version = version
		}
		if name, known := base.Mode.StageName(stage.Number); known {
			sr.Name = name
		}
		resp.Stages = append(resp.Stages, sr)
	}
	return resp
}

func renderBase(base domain.Base) baseResponse {
	resp := baseResponse{
		Name:         base.Name,
		SportID:      base.SportID.String(),
		EntrantCount: base.EntrantCount,
		Type:         base.Type.String(),
		Mode:         base.Mode.String(),
		RoundCount:   base.Mode.RoundCount,
		State:        base.State.String(),
		ActiveStage:  base.State.ActiveStage,
	}
	if id, ok := base.Identity.ID(); ok {
		resp.ID = id.String()
	}
	if version, ok := base.Identity.Version(); ok {
		resp.Version = version
	}
	return resp
}

// queryNumber parses an optional non-negative integer query parameter.
func queryNumber(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, strconv.ErrSyntax
	}
	return &n, nil
}

// writeSaveError maps save failures to HTTP statuses; optimistic-lock
// conflicts surface as 409 so clients reload and retry.
func writeSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrVersionConflict) {
		writeError(w, http.StatusConflict, "tournament was modified concurrently; reload and retry")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeStageError maps structural rejections to HTTP statuses.
func writeStageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tournament.ErrNumberConflict):
		writeError(w, http.StatusConflict, "a different stage already occupies this position")
	case errors.Is(err, tournament.ErrNoBase):
		writeError(w, http.StatusConflict, "tournament base is not set")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
