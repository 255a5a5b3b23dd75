package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dealflow/internal/config"
	"dealflow/internal/models"
	"dealflow/internal/providers"
	"dealflow/internal/retrieval"
	"dealflow/internal/storage"
	"dealflow/internal/util"
	"dealflow/internal/vector"
	"dealflow/internal/websearch"
	"dealflow/internal/workflows"

	"go.temporal.io/api/serviceerror"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg       config.Config
	db        *storage.DB
	docRepo   *storage.DocumentRepo
	auditRepo *storage.AuditRepo
	builder   *retrieval.Builder
	temporal  tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	ws, err := websearch.New(cfg.WebSearchProviders)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}

	index := vector.NewIndex(db.Pool)
	auditRepo := storage.NewAuditRepo(db)
	internal := retrieval.NewInternalRetriever(index, pm.FirstEmbedProvider(), pm.FirstReranker(), cfg.EmbedDim, cfg.EmbedVersion, cfg.InternalTopK)
	external := retrieval.NewExternalRetriever(ws, time.Duration(cfg.WebQueryTimeoutSecs)*time.Second, cfg.ExternalQueryCap, cfg.ResultsPerQuery, cfg.ExternalResultCap)
	flywheel := workflows.NewFlywheelStarter(tc, cfg.TemporalTaskQueue)

	return &Server{
		cfg:       cfg,
		db:        db,
		docRepo:   storage.NewDocumentRepo(db),
		auditRepo: auditRepo,
		builder:   retrieval.NewBuilder(internal, external, flywheel, auditRepo),
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/context", s.handleContext)
	mux.HandleFunc("/news/collapse", s.handleNewsCollapse)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/documents/", s.handleDocumentScoped)
	mux.HandleFunc("/audits", s.handleAudits)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req retrieval.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" || req.Message == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("user_id and message are required"))
		return
	}
	pack := s.builder.BuildContext(r.Context(), req)
	writeJSON(w, http.StatusOK, map[string]any{
		"context":        pack,
		"citation_rules": retrieval.CitationRules,
	})
}

func (s *Server) handleNewsCollapse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Items []models.NewsItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	collapsed := retrieval.CollapseNews(req.Items)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":   collapsed,
		"dropped": len(req.Items) - len(collapsed),
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
		if userID == "" {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("user_id is required"))
			return
		}
		n, err := s.docRepo.CountByUser(r.Context(), userID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": n})
		return
	case http.MethodPost:
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("user_id is required"))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	uploadDir := filepath.Join(s.cfg.UploadRoot, userID)
	if err := util.EnsureDir(uploadDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	type ingestResult struct {
		Filename   string `json:"filename"`
		WorkflowID string `json:"workflow_id"`
	}
	out := make([]ingestResult, 0, len(files))
	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			continue
		}
		docHash, savedPath, err := saveUploadedFile(uploadDir, fh)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		workflowID := "ingest-" + userID + "-" + docHash[:12]
		opts := tclient.StartWorkflowOptions{ID: workflowID, TaskQueue: s.cfg.TemporalTaskQueue}
		we, err := s.temporal.ExecuteWorkflow(r.Context(), opts, workflows.DocumentIngestWorkflow, workflows.DocumentIngestInput{
			UserID:       userID,
			CompanyID:    strings.TrimSpace(r.FormValue("company_id")),
			FounderID:    strings.TrimSpace(r.FormValue("founder_id")),
			Title:        strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)),
			DocumentPath: savedPath,
		})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		out = append(out, ingestResult{Filename: fh.Filename, WorkflowID: we.GetID()})
	}
	if len(out) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"documents": out})
}

func (s *Server) handleDocumentScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/documents/"), "/"), "/")
	if len(parts) != 2 || parts[1] != "progress" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var prog workflows.DocumentIngestProgress
	resp, err := s.temporal.QueryWorkflow(r.Context(), parts[0], "", workflows.QueryGetIngestProgress)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			writeErr(w, http.StatusNotFound, fmt.Errorf("unknown ingestion: %s", parts[0]))
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if err := resp.Get(&prog); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleAudits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("user_id is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	audits, err := s.auditRepo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audits": audits})
}

func saveUploadedFile(dstDir string, fh *multipart.FileHeader) (docHash, path string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dstDir, "upload-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	buf, err := io.ReadAll(src)
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	docHash = util.SHA256Hex(buf)
	finalPath := filepath.Join(dstDir, filepath.Base(fh.Filename))
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("rename upload: %w", err)
	}
	return docHash, finalPath, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "DF-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "DF-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "DF-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "DF-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "DF-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "DF-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "DF-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "DF-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		low := strings.ToLower(err.Error())
		switch {
		case strings.Contains(low, "user_id and message are required"):
			msg = "Both user and message are required."
		case strings.Contains(low, "user_id is required"):
			msg = "A user is required."
		case strings.Contains(low, "no files provided"):
			msg = "No PDF files were provided."
		case strings.Contains(low, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
