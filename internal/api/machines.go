package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/masterdata-core/internal/machine"
	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// machinesResponse is the body of every machine retrieval.
type machinesResponse struct {
	Machines []machine.View `json:"machines"`
}

// createMachineRequest wraps the machine fields the way clients send them.
type createMachineRequest struct {
	Request *machine.Request `json:"request"`
}

// handleGetAllMachines returns every active machine in every language.
func (s *Server) handleGetAllMachines(w http.ResponseWriter, r *http.Request) {
	env, err := s.machines.GetAll(r.Context())
	s.writeMachines(w, r, env, err)
}

// handleGetMachinesByLocale returns the active machines of one language.
func (s *Server) handleGetMachinesByLocale(w http.ResponseWriter, r *http.Request) {
	env, err := s.machines.GetByLocale(r.Context(), chi.URLParam(r, "langcode"))
	s.writeMachines(w, r, env, err)
}

// handleGetMachine returns the active rows of one machine in one language.
func (s *Server) handleGetMachine(w http.ResponseWriter, r *http.Request) {
	env, err := s.machines.GetByIDAndLocale(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "langcode"))
	s.writeMachines(w, r, env, err)
}

func (s *Server) writeMachines(w http.ResponseWriter, r *http.Request, env *masterdata.ResponseEnvelope[machine.View], err error) {
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, machinesResponse{Machines: env.Records})
}

// handleCreateMachine stores a machine and its history row.
func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	var body createMachineRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if body.Request == nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "request is required")
		return
	}
	if missing := missingMachineFields(body.Request); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	createdBy := r.Header.Get(headerUserID)
	if createdBy == "" {
		createdBy = machine.DefaultCreatedBy
	}

	id, err := s.machines.Create(r.Context(), *body.Request, createdBy)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, id)
}

func missingMachineFields(req *machine.Request) []string {
	var missing []string
	if strings.TrimSpace(req.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(req.LangCode) == "" {
		missing = append(missing, "langCode")
	}
	return missing
}

// decodeBody decodes a JSON body into v, writing the error response itself
// when it fails.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
		return false
	}
	writeBadRequest(w, "invalid JSON body")
	return false
}
