package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted"
	"github.com/luno/weighted/server/ops"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error(ctx, errors.Wrap(err, "json marshal"))
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(b)
	if err != nil {
		log.Error(ctx, err)
	}
}

func readJSON(r *http.Request, v any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		return false
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.IsAny(err, weighted.ErrInvalidWeight, weighted.ErrWeightOverflow, ops.ErrInvalidCount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.IsAny(err, ops.ErrUnknownDistribution, weighted.ErrKeyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, weighted.ErrEmptyDistribution):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error(ctx, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
	}
}
