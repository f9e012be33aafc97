package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/weighted/api"
)

func ListDistributionsHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx := r.Context()
		tallied, err := d.Distributions().ListTallied(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, api.ListDistributionsResponse{
			Names:   d.Distributions().Names(),
			Tallied: tallied,
		})
	}
}

func GetDistributionHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		dist, err := d.Distributions().Describe(ctx, p.ByName("name"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, dist)
	}
}

func AddWeightsHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var req api.AddWeights
		if !readJSON(r, &req) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		err := d.Distributions().AddWeights(ctx, p.ByName("name"), req.Entries...)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func SampleHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		req := api.SampleRequest{Count: 1}
		if r.ContentLength != 0 && !readJSON(r, &req) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		keys, err := d.Distributions().Sample(ctx, p.ByName("name"), req.Count)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, api.SampleResponse{Keys: keys})
	}
}
