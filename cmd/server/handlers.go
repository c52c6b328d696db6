package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	quizbuilder "github.com/NobleSoftware-Backend/quiz-builder-docs"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/export"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/parser"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/store"
)

type handler struct {
	store     *store.Store
	maxUpload int64
}

func newHandler(st *store.Store, maxUploadMB int) *handler {
	return &handler{store: st, maxUpload: int64(maxUploadMB) << 20}
}

// POST /compile
// Accepts a multipart document upload (field "file") or a JSON body with a
// serialized document tree. Valid quizzes are archived; validation failures
// come back as a structured report with HTTP 422.
func (h *handler) handleCompile(w http.ResponseWriter, r *http.Request) {
	name, res, ok := h.compileRequest(w, r)
	if !ok {
		return
	}

	if !res.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"validation": res.Validation,
		})
		return
	}

	id, err := h.store.Save(r.Context(), name,
		string(res.Quiz.Type), len(res.Quiz.Questions), res.JSON, res.Assets())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "archiving quiz failed")
		slog.Error("archiving quiz", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quiz_id":    id,
		"validation": res.Validation,
		"quiz":       json.RawMessage(res.JSON),
	})
}

// compileRequest parses the request into a compile result. It writes the
// error response itself when something is wrong.
func (h *handler) compileRequest(w http.ResponseWriter, r *http.Request) (string, *quizbuilder.Result, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart upload")
			return "", nil, false
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return "", nil, false
		}
		defer file.Close()

		// Sanitise the filename to prevent path traversal.
		safeName := filepath.Base(header.Filename)
		tmpPath := filepath.Join(os.TempDir(), safeName)
		dst, err := os.Create(tmpPath)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to process file")
			slog.Error("creating temp file", "error", err)
			return "", nil, false
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			writeError(w, http.StatusInternalServerError, "failed to save file")
			slog.Error("saving uploaded file", "error", err)
			return "", nil, false
		}
		dst.Close()
		defer os.Remove(tmpPath)

		res, err := quizbuilder.CompileFile(r.Context(), tmpPath)
		if err != nil {
			h.writeCompileError(w, err)
			return "", nil, false
		}
		return safeName, res, true
	}

	var req struct {
		Name     string            `json:"name"`
		Document *doctree.Document `json:"document"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'document'")
		return "", nil, false
	}
	if req.Document == nil || len(req.Document.Blocks) == 0 {
		writeError(w, http.StatusBadRequest, "document is required")
		return "", nil, false
	}
	if req.Name == "" {
		req.Name = "untitled"
	}

	res, err := quizbuilder.Compile(req.Document)
	if err != nil {
		h.writeCompileError(w, err)
		return "", nil, false
	}
	return req.Name, res, true
}

func (h *handler) writeCompileError(w http.ResponseWriter, err error) {
	var pe *parser.ParseError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": pe.Error(),
			"line":  pe.Line,
		})
	case errors.Is(err, quizbuilder.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "compile failed")
		slog.Error("compile error", "error", err)
	}
}

// GET /quizzes
func (h *handler) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list quizzes")
		slog.Error("listing quizzes", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

// GET /quizzes/{id}
func (h *handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             rec.ID,
		"name":           rec.Name,
		"quiz_type":      rec.QuizType,
		"question_count": rec.QuestionCount,
		"created_at":     rec.CreatedAt,
		"quiz":           json.RawMessage(rec.Payload),
	})
}

// DELETE /quizzes/{id}
func (h *handler) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("deleting quiz", "quiz_id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /quizzes/{id}/bundle
// Streams the packaged quiz (quiz.json + images/) as a ZIP download.
func (h *handler) handleBundle(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	images, err := h.store.GetImages(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading images failed")
		slog.Error("loading quiz images", "quiz_id", rec.ID, "error", err)
		return
	}

	var doc export.Document
	if err := json.Unmarshal(rec.Payload, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "archived quiz is corrupt")
		slog.Error("decoding archived quiz", "quiz_id", rec.ID, "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name+".zip"))
	if err := export.WriteZip(w, &doc, images); err != nil {
		slog.Error("streaming bundle", "quiz_id", rec.ID, "error", err)
	}
}

// GET /quizzes/{id}/images/{filename}
func (h *handler) handleImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	filename := filepath.Base(r.PathValue("filename"))
	data, err := h.store.GetImage(r.Context(), id, filename)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading image failed")
		slog.Error("loading image", "quiz_id", id, "filename", filename, "error", err)
		return
	}
	w.Header().Set("Content-Type", mimeForFilename(filename))
	w.Write(data)
}

// GET /quizzes/{id}/preview
func (h *handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var doc export.Document
	if err := json.Unmarshal(rec.Payload, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "archived quiz is corrupt")
		slog.Error("decoding archived quiz", "quiz_id", rec.ID, "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(previewHTML(rec.Name, &doc)))
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := r.PathValue("id")
	rec, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading quiz failed")
		slog.Error("loading quiz", "quiz_id", id, "error", err)
		return nil, false
	}
	return rec, true
}

func mimeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
