package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/blogd/internal/repository"
)

// crudService is the surface every entity service exposes past creation.
// Creation differs per entity (password hashing, ownership stamping), so the
// resource carries it as closures instead.
type crudService[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error)
	List(ctx context.Context, q repository.ListQuery) (*repository.Page[T], error)
	UpdateByID(ctx context.Context, id uuid.UUID, changes map[string]any) (*T, error)
	UpdateBatch(ctx context.Context, patches []repository.Patch) ([]*T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// resource wires one entity type onto the router. C is the create payload,
// P the patch payload. When guard is non-nil, mutating routes require auth
// and the caller's id is available to the create closures.
type resource[T, C, P any] struct {
	log         *zap.Logger
	svc         crudService[T]
	create      func(ctx context.Context, caller uuid.UUID, in C) (*T, error)
	createBatch func(ctx context.Context, caller uuid.UUID, ins []C) ([]*T, error)
	changes     func(P) map[string]any
	guard       func(http.Handler) http.Handler
}

func (rs *resource[T, C, P]) mount(r chi.Router) {
	r.Get("/bulk", rs.getMany)
	r.Get("/{id}", rs.getOne)
	r.Get("/", rs.list)

	mutating := func(g chi.Router) {
		g.Post("/", rs.createOne)
		g.Post("/bulk", rs.createMany)
		g.Patch("/bulk", rs.patchMany)
		g.Patch("/{id}", rs.patchOne)
		g.Delete("/bulk", rs.deleteMany)
		g.Delete("/{id}", rs.deleteOne)
	}
	if rs.guard != nil {
		r.Group(func(g chi.Router) {
			g.Use(rs.guard)
			mutating(g)
		})
		return
	}
	mutating(r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		fail(w, http.StatusUnprocessableEntity, "malformed request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusUnprocessableEntity, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (rs *resource[T, C, P]) createOne(w http.ResponseWriter, r *http.Request) {
	var in C
	if !decodeBody(w, r, &in) {
		return
	}
	caller, _ := UserIDFromCtx(r.Context())
	rec, err := rs.create(r.Context(), caller, in)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusCreated, "created", rec)
}

func (rs *resource[T, C, P]) createMany(w http.ResponseWriter, r *http.Request) {
	var ins []C
	if !decodeBody(w, r, &ins) {
		return
	}
	caller, _ := UserIDFromCtx(r.Context())
	recs, err := rs.createBatch(r.Context(), caller, ins)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusCreated, "created", recs)
}

func (rs *resource[T, C, P]) getOne(w http.ResponseWriter, r *http.Request) {
	id, okID := pathID(w, r)
	if !okID {
		return
	}
	rec, err := rs.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "", rec)
}

// getMany reads ids from the query string: repeated ids params or one
// comma-separated value. Missing ids are omitted from the result.
func (rs *resource[T, C, P]) getMany(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query()["ids"])
	if err != nil {
		fail(w, http.StatusUnprocessableEntity, "invalid id in ids")
		return
	}
	recs, err := rs.svc.GetByIDs(r.Context(), ids)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "", recs)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, chunk := range raw {
		for _, part := range strings.Split(chunk, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.FromString(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (rs *resource[T, C, P]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq := repository.ListQuery{
		OrderBy:     q.Get("order_by"),
		SearchBy:    q.Get("search_by"),
		SearchQuery: q.Get("search_query"),
		Desc:        q.Get("desc") == "true" || q.Get("desc") == "1",
	}
	var err error
	if lq.Page, err = intParam(q.Get("page")); err != nil {
		fail(w, http.StatusUnprocessableEntity, "invalid page")
		return
	}
	if lq.Limit, err = intParam(q.Get("limit")); err != nil {
		fail(w, http.StatusUnprocessableEntity, "invalid limit")
		return
	}
	page, err := rs.svc.List(r.Context(), lq)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "", page)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (rs *resource[T, C, P]) patchOne(w http.ResponseWriter, r *http.Request) {
	id, okID := pathID(w, r)
	if !okID {
		return
	}
	var p P
	if !decodeBody(w, r, &p) {
		return
	}
	rec, err := rs.svc.UpdateByID(r.Context(), id, rs.changes(p))
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "updated", rec)
}

// patchMany accepts a list of objects, each carrying its target id next to
// the patch fields. Ids that resolve to no row are dropped from the result.
func (rs *resource[T, C, P]) patchMany(w http.ResponseWriter, r *http.Request) {
	var raws []json.RawMessage
	if !decodeBody(w, r, &raws) {
		return
	}
	patches := make([]repository.Patch, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			ID uuid.UUID `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.ID == uuid.Nil {
			fail(w, http.StatusUnprocessableEntity, "patch entries require an id")
			return
		}
		var p P
		if err := json.Unmarshal(raw, &p); err != nil {
			fail(w, http.StatusUnprocessableEntity, "malformed patch entry")
			return
		}
		patches = append(patches, repository.Patch{ID: head.ID, Changes: rs.changes(p)})
	}
	recs, err := rs.svc.UpdateBatch(r.Context(), patches)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "updated", recs)
}

func (rs *resource[T, C, P]) deleteOne(w http.ResponseWriter, r *http.Request) {
	id, okID := pathID(w, r)
	if !okID {
		return
	}
	if err := rs.svc.DeleteByID(r.Context(), id); err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "deleted", nil)
}

// deleteMany removes whatever subset of ids exists and reports the count.
func (rs *resource[T, C, P]) deleteMany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	n, err := rs.svc.DeleteBatch(r.Context(), body.IDs)
	if err != nil {
		writeError(w, rs.log, err)
		return
	}
	ok(w, http.StatusOK, "deleted", map[string]int64{"deleted": n})
}
