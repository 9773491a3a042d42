package api

import (
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/pipeline"
	"encoding/json"
	"errors"
	"github.com/rs/zerolog"
	"io"
	"net/http"
	"strings"
)

type Request struct {
	Pipeline  pipeline.Pipeline
	Resources pipeline.Resources
	Drafts    drafts.Store
}

func (req *Request) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/reports", req.ProcessReport)
	mux.HandleFunc("/translate", req.Translate)
	mux.HandleFunc("/drafts", req.Draft)
	mux.HandleFunc("/findings", req.Findings)
	return mux
}

// ProcessReport runs the pipeline over the posted report and returns the
// generated fields with the print view.
func (req *Request) ProcessReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		fail(w, logger, nil, http.StatusMethodNotAllowed, "Only 'POST' method is allowed here")
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		fail(w, logger, err, http.StatusBadRequest, "Could not read request body")
		return
	}

	var request pipeline.Request
	if err := json.Unmarshal(msg, &request); err != nil {
		fail(w, logger, err, http.StatusBadRequest, "Could not parse request body")
		return
	}
	if request.Tid == "" {
		request.Tid = pipeline.NewTid()
	}

	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, err := req.Pipeline(request)
	switch {
	case errors.Is(err, pipeline.ErrEmptyReport), errors.Is(err, pipeline.ErrUnknownFinding), errors.Is(err, pipeline.ErrUnknownArtery):
		fail(w, logger, err, http.StatusBadRequest, "Pipeline rejected request")
		return
	case err != nil:
		fail(w, logger, err, http.StatusInternalServerError, "Pipeline failed")
		return
	}
	writeJSON(w, logger, resp)
}

// Translate turns a posted English impression into Vietnamese.
func (req *Request) Translate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		fail(w, logger, nil, http.StatusMethodNotAllowed, "Only 'POST' method is allowed here")
		return
	}
	msg, err := io.ReadAll(r.Body)
	if err != nil {
		fail(w, logger, err, http.StatusBadRequest, "Could not read request body")
		return
	}
	_, _ = w.Write([]byte(req.Resources.Translator.Translate(string(msg))))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func (req *Request) Findings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "GET" {
		fail(w, logger, nil, http.StatusMethodNotAllowed, "Only 'GET' method is allowed here")
		return
	}
	writeJSON(w, logger, req.Resources.Catalog)
}

// Draft serves the draft store. The key defaults to drafts.DefaultKey and
// can be overridden with the "key" query parameter.
func (req *Request) Draft(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		key = drafts.DefaultKey
	}
	logger := makeRequestLogger(r).With().Str("key", key).Logger()

	switch r.Method {
	case "GET":
		draft, err := req.Drafts.Load(key)
		if errors.Is(err, drafts.ErrNotFound) {
			fail(w, logger, err, http.StatusNotFound, "No draft saved")
			return
		}
		if err != nil {
			fail(w, logger, err, http.StatusInternalServerError, "Could not load draft")
			return
		}
		writeJSON(w, logger, draft)

	case "PUT":
		var draft drafts.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			fail(w, logger, err, http.StatusBadRequest, "Could not parse draft")
			return
		}
		if err := req.Drafts.Save(key, draft); err != nil {
			fail(w, logger, err, http.StatusInternalServerError, "Could not save draft")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		logger.Info().Int("status", http.StatusNoContent).Msg("Draft saved")

	case "PATCH":
		patch, err := io.ReadAll(r.Body)
		if err != nil {
			fail(w, logger, err, http.StatusBadRequest, "Could not read request body")
			return
		}
		draft, err := req.Drafts.Patch(key, patch)
		if errors.Is(err, drafts.ErrNotFound) {
			fail(w, logger, err, http.StatusNotFound, "No draft saved")
			return
		}
		if err != nil {
			fail(w, logger, err, http.StatusBadRequest, "Could not patch draft")
			return
		}
		writeJSON(w, logger, draft)

	case "DELETE":
		if err := req.Drafts.Delete(key); err != nil {
			fail(w, logger, err, http.StatusInternalServerError, "Could not delete draft")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		logger.Info().Int("status", http.StatusNoContent).Msg("Draft deleted")

	default:
		fail(w, logger, nil, http.StatusMethodNotAllowed, "Method is not allowed here")
	}
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		fail(w, logger, err, http.StatusInternalServerError, "Could not encode response")
		return
	}
	_, _ = w.Write(body)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
