package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewServer exposes store over HTTP:
//
//	GET  /{collection}?field=value
//	GET  /{collection}/{id}
//	POST /{collection}
func NewServer(store *Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/{collection}", func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")
		filters := map[string]string{}
		for k, vs := range r.URL.Query() {
			if len(vs) > 0 {
				filters[k] = vs[0]
			}
		}
		records, ok := store.List(collection, filters)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown collection " + collection})
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Get("/{collection}/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, ok := store.Get(chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Post("/{collection}", func(w http.ResponseWriter, r *http.Request) {
		collection := chi.URLParam(r, "collection")
		var rec Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		created := store.Insert(collection, rec)
		logger.Info("mockapi: record created",
			zap.String("collection", collection),
			zap.Any("id", created["id"]),
		)
		writeJSON(w, http.StatusCreated, created)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
