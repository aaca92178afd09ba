package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/sql"
)

// Handler serves the HTTP API of an engine.
type Handler struct {
	e   *mldb.Engine
	cfg Config
}

// NewHandler creates a new Handler for the given engine.
func NewHandler(e *mldb.Engine, cfg Config) *Handler {
	return &Handler{e: e, cfg: cfg}
}

// Router returns the routes of the API.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests, h.limitBody)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/ping", h.ping).Methods(http.MethodGet)
	v1.HandleFunc("/query", h.query).Methods(http.MethodGet, http.MethodPost)
	v1.HandleFunc("/datasets", h.listDatasets).Methods(http.MethodGet)
	v1.HandleFunc("/datasets", h.createDataset).Methods(http.MethodPost)
	v1.HandleFunc("/datasets/{id}", h.getDataset).Methods(http.MethodGet)
	v1.HandleFunc("/datasets/{id}", h.putDataset).Methods(http.MethodPut)
	v1.HandleFunc("/datasets/{id}", h.deleteDataset).Methods(http.MethodDelete)
	v1.HandleFunc("/datasets/{id}/rows", h.recordRow).Methods(http.MethodPost)
	v1.HandleFunc("/datasets/{id}/multirows", h.recordRows).Methods(http.MethodPost)
	v1.HandleFunc("/datasets/{id}/commit", h.commit).Methods(http.MethodPost)

	v1.HandleFunc("/types/datasets", h.listKinds).Methods(http.MethodGet)

	notAllowed := routeError(http.StatusMethodNotAllowed, "method not allowed: ")
	r.NotFoundHandler = routeError(http.StatusNotFound, "no route for ")
	r.MethodNotAllowedHandler = notAllowed
	v1.MethodNotAllowedHandler = notAllowed

	return r
}

func routeError(status int, prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, errorResponse{
			Error:    prefix + r.Method + " " + r.URL.Path,
			HTTPCode: status,
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		RequestTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": elapsed,
		}).Debug("request served")
	})
}

func (h *Handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.MaxBodySize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) newContext(r *http.Request, opts ...sql.ContextOption) *sql.Context {
	opts = append(opts, sql.WithTracer(h.cfg.tracer()))
	return sql.NewContext(r.Context(), opts...)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, datasetRoute bool) {
	status := errorStatus(err, datasetRoute)

	entry := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), HTTPCode: status})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "pong")
}

type datasetStatus struct {
	ID     string           `json:"id"`
	Type   string           `json:"type"`
	Status sql.DatasetStats `json:"status"`
}

func describe(ctx *sql.Context, ds sql.Dataset) (datasetStatus, error) {
	stats, err := ds.Stats(ctx)
	if err != nil {
		return datasetStatus{}, err
	}
	return datasetStatus{ID: ds.Name(), Type: ds.Kind(), Status: stats}, nil
}

func (h *Handler) listDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.e.Catalog.Datasets()
	ids := make([]string, len(datasets))
	for i, ds := range datasets {
		ids[i] = ds.Name()
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) listKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.e.Catalog.Kinds())
}

func (h *Handler) createDataset(w http.ResponseWriter, r *http.Request) {
	var config sql.DatasetConfig
	if err := decodeJSON(r, &config); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	h.create(w, r, config)
}

func (h *Handler) putDataset(w http.ResponseWriter, r *http.Request) {
	var config sql.DatasetConfig
	if err := decodeJSON(r, &config); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	config.ID = mux.Vars(r)["id"]
	h.create(w, r, config)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, config sql.DatasetConfig) {
	ctx := h.newContext(r)
	ds, err := h.e.CreateDataset(ctx, config)
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	status, err := describe(ctx, ds)
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	w.Header().Set("Location", "/v1/datasets/"+url.PathEscape(ds.Name()))
	writeJSON(w, http.StatusCreated, status)
}

func (h *Handler) getDataset(w http.ResponseWriter, r *http.Request) {
	ctx := h.newContext(r)
	ds, err := h.e.Dataset(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	status, err := describe(ctx, ds)
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) deleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.e.DropDataset(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err, true)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rowRequest struct {
	RowName string        `json:"rowName"`
	Columns []interface{} `json:"columns"`
}

func parseCells(raw []interface{}) ([]sql.Cell, error) {
	cells := make([]sql.Cell, len(raw))
	for i, c := range raw {
		cell, err := sql.ParseCell(c)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return cells, nil
}

func (h *Handler) recordRow(w http.ResponseWriter, r *http.Request) {
	ctx := h.newContext(r)
	ds, err := h.e.Dataset(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	var req rowRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	cells, err := parseCells(req.Columns)
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	if err := ds.RecordRow(ctx, req.RowName, cells); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	RowsRecorded.WithLabelValues(ds.Kind()).Inc()
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) recordRows(w http.ResponseWriter, r *http.Request) {
	ctx := h.newContext(r)
	ds, err := h.e.Dataset(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	var req [][]interface{}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	type parsedRow struct {
		name  string
		cells []sql.Cell
	}

	rows := make([]parsedRow, len(req))
	for i, raw := range req {
		if len(raw) != 2 {
			h.writeError(w, r, ErrInvalidBody.New("rows must be [rowName, columns] pairs"), true)
			return
		}

		name, err := cast.ToStringE(raw[0])
		if err != nil {
			h.writeError(w, r, sql.ErrInvalidRowName.New(raw[0]), true)
			return
		}

		columns, ok := raw[1].([]interface{})
		if !ok {
			h.writeError(w, r, ErrInvalidBody.New("columns of row "+name+" must be a list"), true)
			return
		}

		cells, err := parseCells(columns)
		if err != nil {
			h.writeError(w, r, err, true)
			return
		}

		if err := sql.ValidateRow(name, cells); err != nil {
			h.writeError(w, r, err, true)
			return
		}

		rows[i] = parsedRow{name, cells}
	}

	for _, row := range rows {
		if err := ds.RecordRow(ctx, row.name, row.cells); err != nil {
			h.writeError(w, r, err, true)
			return
		}
	}

	RowsRecorded.WithLabelValues(ds.Kind()).Add(float64(len(rows)))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	ctx := h.newContext(r)
	ds, err := h.e.Dataset(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	if err := ds.Commit(ctx); err != nil {
		h.writeError(w, r, err, true)
		return
	}

	logrus.WithField(mldb.DatasetLogField, ds.Name()).Debug("dataset committed")
	w.WriteHeader(http.StatusOK)
}

// queryParams returns the parameters of a query request. POST requests may
// carry them as a JSON object.
func queryParams(r *http.Request) (url.Values, error) {
	params := r.URL.Query()
	if r.Method != http.MethodPost {
		return params, nil
	}

	var body map[string]interface{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err == io.EOF {
		return params, nil
	} else if err != nil {
		return nil, bodyError(err)
	}

	for k, v := range body {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, ErrInvalidParam.New(v, k)
		}
		params.Set(k, s)
	}

	return params, nil
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	params, err := queryParams(r)
	if err != nil {
		h.writeError(w, r, err, false)
		return
	}

	q := params.Get("q")
	if q == "" {
		h.writeError(w, r, ErrMissingQuery.New(), false)
		return
	}

	opts, err := parseResultOptions(params)
	if err != nil {
		h.writeError(w, r, err, false)
		return
	}

	result, err := h.runQuery(h.newContext(r, sql.WithQuery(q)), q, opts)
	if err != nil {
		QueriesTotal.WithLabelValues("error").Inc()
		h.writeError(w, r, err, false)
		return
	}

	QueriesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) runQuery(ctx *sql.Context, q string, opts resultOptions) (interface{}, error) {
	schema, iter, err := h.e.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	rb := newResultBuilder(schema, opts)
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			_ = iter.Close()
			return nil, err
		}

		rb.writeRow(row)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return rb.result()
}
