package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/compileinfo"
	"github.com/carbocation/prs313/genotype"
	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/resultstore"
	"github.com/gorilla/mux"
)

type handler struct {
	*Global
}

type scoreResponse struct {
	ID string `json:"id,omitempty"`
	pipeline.Report
}

// Score runs the pipeline on an uploaded genotype file (form field
// "genotypes"). Optional form fields "trials" and "seed" override the server
// defaults for this request.
func (h *handler) Score(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		HTTPError(h, w, r, http.StatusBadRequest, err)
		return
	}

	cfg := h.Config
	if v := r.FormValue("trials"); v != "" {
		trials, err := strconv.Atoi(v)
		if err != nil || trials < 1 || trials > h.MaxTrials {
			HTTPError(h, w, r, http.StatusBadRequest, fmt.Errorf("trials must be an integer from 1 to %d", h.MaxTrials))
			return
		}
		cfg.Trials = trials
	}
	if v := r.FormValue("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			HTTPError(h, w, r, http.StatusBadRequest, fmt.Errorf("seed must be a non-negative integer"))
			return
		}
		cfg.Seed = seed
	}

	file, header, err := r.FormFile("genotypes")
	if err != nil {
		HTTPError(h, w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", prs313.ErrNoGenotypes, err))
		return
	}
	defer file.Close()

	rc, err := prs313.MaybeDecompressReadCloser(file)
	if err != nil {
		HTTPError(h, w, r, http.StatusBadRequest, err)
		return
	}
	defer rc.Close()

	inputName := filepath.Base(header.Filename)
	genotypes, warnings, err := genotype.Load(rc, inputName)
	if err != nil {
		HTTPError(h, w, r, http.StatusBadRequest, err)
		return
	}
	h.log.Printf("Received %d genotypes from %s (%d malformed lines)\n", len(genotypes), inputName, len(warnings))

	runner, err := pipeline.New(cfg, h.resources, h.log)
	if err != nil {
		HTTPError(h, w, r, http.StatusInternalServerError, err)
		return
	}

	result, err := runner.Run(r.Context(), genotypes)
	if errors.Is(err, prs313.ErrNoGenotypes) {
		HTTPError(h, w, r, http.StatusBadRequest, err)
		return
	} else if err != nil {
		HTTPError(h, w, r, http.StatusInternalServerError, err)
		return
	}

	out := scoreResponse{Report: result.Report()}

	if h.store != nil {
		run := &resultstore.Run{
			InputName: inputName,
			Layout:    cfg.Layout,
			Trials:    cfg.Trials,
			Seed:      int64(cfg.Seed),
			Matched:   result.Matched,
			Reference: len(result.Records),
			Summaries: result.Summaries,
		}
		if err := h.store.Put(r.Context(), run); err != nil {
			HTTPError(h, w, r, http.StatusInternalServerError, err)
			return
		}
		out.ID = run.ID
	}

	writeJSON(h, w, http.StatusOK, out)
}

func (h *handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		HTTPError(h, w, r, http.StatusNotFound, fmt.Errorf("runs are not being stored"))
		return
	}

	run, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, resultstore.ErrNotFound) {
		HTTPError(h, w, r, http.StatusNotFound, err)
		return
	} else if err != nil {
		HTTPError(h, w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(h, w, http.StatusOK, run)
}

func (h *handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(h, w, http.StatusOK, []resultstore.Run{})
		return
	}

	runs, err := h.store.Recent(r.Context(), 50)
	if err != nil {
		HTTPError(h, w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(h, w, http.StatusOK, runs)
}

func (h *handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(h, w, http.StatusOK, compileinfo.Get())
}

func writeJSON(h *handler, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Println(err)
	}
}

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, status int, err error) {
	h.log.Printf("%s %s: %v\n", r.Method, r.URL.Path, err)
	writeJSON(h, w, status, struct {
		Error string `json:"error"`
	}{err.Error()})
}
