package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

type recentLister interface {
	Recent(ctx context.Context, limit int) ([]*Entry, error)
}

// Handler serves the latest uploads as JSON. The optional "limit" query
// parameter caps the number of rows.
func Handler(j recentLister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := defaultLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxLimit)
		}

		entries, err := j.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, "journal unavailable", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []*Entry{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	})
}
