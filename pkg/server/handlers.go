package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/interact"
	"github.com/matzehuels/cellblend/pkg/observability"
	"github.com/matzehuels/cellblend/pkg/pipeline"
	"github.com/matzehuels/cellblend/pkg/render"
)

// handlerFunc is an http.HandlerFunc that reports failures as errors.
type handlerFunc func(http.ResponseWriter, *http.Request) error

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return render.WriteJSON(s.store.Snapshot(), w)
}

// artifact serves one rendered format of the current state.
func (s *Server) artifact(format string) http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		opts, err := renderOptions(r, format)
		if err != nil {
			return err
		}
		res, err := s.runner.Render(r.Context(), s.store.Snapshot(), opts)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", pipeline.ContentType(format))
		w.Header().Set("ETag", strconv.Quote(res.StateHash[:16]))
		_, err = w.Write(res.Artifacts[format])
		return err
	})
}

func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:  []string{format},
		Sites:    q.Get("sites") == "1" || q.Get("sites") == "true",
		Detailed: q.Get("detailed") == "1" || q.Get("detailed") == "true",
	}
	if v := q.Get("resolution"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolution %q", v)
		}
		opts.Resolution = n
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v)
		}
		opts.Scale = f
	}
	if q.Get("interactive") == "1" {
		opts.ClickPath = clickPath
	}
	return opts, nil
}

// clickResponse is the body returned by the click endpoints.
type clickResponse struct {
	interact.Outcome
	Version uint64 `json:"version"`
	Cells   int    `json:"cells"`
}

func writeOutcome(w http.ResponseWriter, out interact.Outcome) {
	writeJSON(w, http.StatusOK, clickResponse{
		Outcome: out,
		Version: out.State.Version,
		Cells:   out.State.Len(),
	})
}

func (s *Server) clickIndex(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidIndex, err, "cell index %q", raw)
	}
	out, err := s.ctrl.Click(r.Context(), i)
	if err != nil {
		return err
	}
	writeOutcome(w, out)
	return nil
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) clickPoint(w http.ResponseWriter, r *http.Request) error {
	var req pointRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode click")
	}
	out, err := s.ctrl.ClickAt(r.Context(), req.X, req.Y)
	if err != nil {
		return err
	}
	writeOutcome(w, out)
	return nil
}

// stateSummary is the body returned by the state-replacing endpoints.
type stateSummary struct {
	Generation string `json:"generation"`
	Version    uint64 `json:"version"`
	Cells      int    `json:"cells"`
}

func summarize(st diagram.State) stateSummary {
	return stateSummary{Generation: st.Generation, Version: st.Version, Cells: st.Len()}
}

func (s *Server) regenerate(w http.ResponseWriter, r *http.Request) error {
	n := s.points
	if v := r.URL.Query().Get("points"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "points %q", v)
		}
	}
	st, err := s.store.Regenerate(n)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, summarize(st))
	return nil
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, summarize(s.store.ResetColors()))
	return nil
}
