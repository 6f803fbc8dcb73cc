package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/storage"
	"github.com/dukerupert/fintrack/internal/store"
)

// maxDocumentSize caps uploads at 10 MiB.
const maxDocumentSize = 10 << 20

type DocumentHandler struct {
	documents     *store.DocumentStore
	subscriptions *store.SubscriptionStore
	storage       *storage.DocumentStorage
	logger        *slog.Logger
}

func NewDocumentHandler(ds *store.DocumentStore, ss *store.SubscriptionStore, st *storage.DocumentStorage, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{documents: ds, subscriptions: ss, storage: st, logger: logger}
}

// Upload accepts a multipart form with a "file" part plus title, category,
// description, and an optional subscription_id link.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	if !h.storage.Configured() {
		writeError(w, http.StatusServiceUnavailable, "document storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	category := r.FormValue("category")
	if category == "" {
		category = model.CategoryOther
	}

	var subscriptionID *string
	if sid := r.FormValue("subscription_id"); sid != "" {
		sub, err := h.subscriptions.GetByID(sid)
		if err != nil {
			h.logger.Error("check linked subscription", "subscription_id", sid, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to check subscription")
			return
		}
		if sub == nil || sub.UserID != user.ID {
			writeError(w, http.StatusBadRequest, "subscription not found")
			return
		}
		subscriptionID = &sid
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.ObjectKey(user.ID, uuid.NewString(), header.Filename)
	if err := h.storage.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		h.logger.Error("upload document", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	doc, err := h.documents.Create(user.ID, title, header.Filename, contentType, r.FormValue("description"), category, key, subscriptionID)
	if err != nil {
		h.logger.Error("create document record", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	docs, err := h.documents.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Download streams the stored file back to the owner.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	doc := h.ownedDocument(w, r, user)
	if doc == nil {
		return
	}

	body, size, err := h.storage.Download(r.Context(), doc.StorageKey)
	if err != nil {
		h.logger.Error("download document", "key", doc.StorageKey, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to download document")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	io.Copy(w, body)
}

// Delete removes both the stored object and the database record.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	doc := h.ownedDocument(w, r, user)
	if doc == nil {
		return
	}

	if err := h.storage.Delete(r.Context(), doc.StorageKey); err != nil {
		h.logger.Error("delete stored document", "key", doc.StorageKey, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete stored document")
		return
	}
	if err := h.documents.Delete(doc.ID); err != nil {
		h.logger.Error("delete document record", "document_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) ownedDocument(w http.ResponseWriter, r *http.Request, user *model.User) *model.Document {
	id := r.PathValue("id")
	doc, err := h.documents.GetByID(id)
	if err != nil {
		h.logger.Error("get document", "document_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return nil
	}
	if doc == nil || doc.UserID != user.ID {
		writeError(w, http.StatusNotFound, "document not found")
		return nil
	}
	return doc
}
