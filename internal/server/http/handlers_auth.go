package httpserver

import (
	"net/http"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Identifier == "" || req.Password == "" {
		fail(w, http.StatusUnprocessableEntity, "identifier and password are required")
		return
	}
	toks, err := s.auth.Login(r.Context(), req.Identifier, req.Password, r.RemoteAddr)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "logged in", toks)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		fail(w, http.StatusUnprocessableEntity, "refresh_token is required")
		return
	}
	toks, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "refreshed", toks)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, found := UserIDFromCtx(r.Context())
	if !found {
		fail(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}
	u, err := s.auth.CurrentUser(r.Context(), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "", u)
}
