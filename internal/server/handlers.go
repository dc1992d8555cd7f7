package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alopesmendes/PokedexAI/internal/pokemondetail"
	"github.com/alopesmendes/PokedexAI/internal/pokemons"
)

type listResponse struct {
	Count      *int                   `json:"count"`
	NextOffset *int                   `json:"next_offset"`
	NextLimit  *int                   `json:"next_limit"`
	Items      []pokemons.ItemSummary `json:"items"`
}

// handleList serves GET /pokemon?offset=&limit=.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Kind: "bad_request", Message: err.Error()})
		return
	}
	limit, err := queryInt(r, "limit", s.cfg.PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Kind: "bad_request", Message: err.Error()})
		return
	}

	m := pokemons.NewMachine(s.list)
	m.Start(r.Context())
	defer m.Stop()

	state, err := pokemons.Load(r.Context(), m, &offset, &limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errorBody{Kind: "cancelled", Message: err.Error()})
		return
	}

	if f := state.Failure; f != nil {
		writeError(w, listStatus(f), errorBody{Kind: f.Kind.String(), Message: f.Message, StatusCode: f.StatusCode})
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Count:      state.Count,
		NextOffset: state.Offset,
		NextLimit:  state.Limit,
		Items:      state.Items,
	})
}

// handleDetail serves GET /pokemon/{name}.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))

	m := pokemondetail.NewMachine(s.detail)
	m.Start(r.Context())
	defer m.Stop()

	state, err := pokemondetail.Load(r.Context(), m, name)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errorBody{Kind: "cancelled", Message: err.Error()})
		return
	}

	if f := state.Failure; f != nil {
		status := http.StatusBadGateway
		if f.NotFound() {
			status = http.StatusNotFound
		}
		writeError(w, status, errorBody{Kind: f.Kind.String(), Message: f.Message, StatusCode: f.StatusCode})
		return
	}

	writeJSON(w, http.StatusOK, state.Detail)
}

func listStatus(f *pokemons.Failure) int {
	switch {
	case f.IsValidation():
		return http.StatusBadRequest
	case f.Kind == pokemons.HTTPFailure && f.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryError{key: key, value: raw}
	}
	return v, nil
}

type queryError struct {
	key, value string
}

func (e *queryError) Error() string {
	return "invalid " + e.key + " " + strconv.Quote(e.value)
}
