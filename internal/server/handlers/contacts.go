package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/pkg/api"
)

// ContactsHandler обрабатывает /co/* сервиса контактов
type ContactsHandler struct {
	logger   *slog.Logger
	contacts storage.ContactStorage
}

// NewContactsHandler создает новый handler контактов
func NewContactsHandler(logger *slog.Logger, contacts storage.ContactStorage) *ContactsHandler {
	return &ContactsHandler{
		logger:   logger,
		contacts: contacts,
	}
}

// SyncToken курсор коллекции в формате сервиса: HSK-<prefix>-S=<counter>
func SyncToken(appleID string, counter int64) string {
	return "HSK-" + accountTag(appleID) + "-S=" + strconv.FormatInt(counter, 10)
}

func prefToken(appleID string) string {
	return "pref-" + accountTag(appleID)
}

func accountTag(appleID string) string {
	return crypto.HashToken(appleID)[:12]
}

// Startup обрабатывает GET /co/startup
func (h *ContactsHandler) Startup(w http.ResponseWriter, r *http.Request) {
	claims, collection, ok := h.collection(w, r)
	if !ok {
		return
	}
	WriteJSON(w, h.logger, api.StartupResponse{
		PrefToken: prefToken(claims.AppleID),
		SyncToken: SyncToken(claims.AppleID, collection.Counter),
		Groups:    collection.Groups,
	}, http.StatusOK)
}

// List обрабатывает GET /co/contacts?limit=N&offset=M; limit=0 значит все
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid limit")
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid offset")
		return
	}

	page := collection.Contacts
	if offset >= len(page) {
		page = nil
	} else {
		page = page[offset:]
	}
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	raw := make([]json.RawMessage, 0, len(page))
	for _, c := range page {
		data, err := json.Marshal(c)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "failed to encode contact", slog.String("contact_id", c.ContactID), slog.Any("error", err))
			WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
			return
		}
		raw = append(raw, data)
	}

	WriteJSON(w, h.logger, api.ContactsResponse{
		SyncToken: SyncToken(claims.AppleID, collection.Counter),
		Contacts:  raw,
	}, http.StatusOK)
}

// MutateContacts обрабатывает POST /co/contacts/card; method=PUT означает изменение
func (h *ContactsHandler) MutateContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var req api.ContactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if len(req.Contacts) == 0 {
		WriteError(w, h.logger, http.StatusBadRequest, "", "no contacts in request")
		return
	}

	update := isUpdate(r)
	counter, saved, err := h.contacts.SaveContacts(ctx, claims.AppleID, req.Contacts, update)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "contacts saved",
		slog.String("apple_id", claims.AppleID),
		slog.Int("count", len(saved)),
		slog.Bool("update", update),
		slog.Int64("counter", counter))
	WriteJSON(w, h.logger, api.MutationResponse{
		SyncToken: SyncToken(claims.AppleID, counter),
		Contacts:  saved,
	}, http.StatusOK)
}

// MutateGroups обрабатывает POST /co/groups/card; method=PUT означает изменение
func (h *ContactsHandler) MutateGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	var req api.GroupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if len(req.Groups) == 0 {
		WriteError(w, h.logger, http.StatusBadRequest, "", "no groups in request")
		return
	}

	update := isUpdate(r)
	counter, saved, err := h.contacts.SaveGroups(ctx, claims.AppleID, req.Groups, update)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "groups saved",
		slog.String("apple_id", claims.AppleID),
		slog.Int("count", len(saved)),
		slog.Bool("update", update))
	WriteJSON(w, h.logger, api.MutationResponse{
		SyncToken: SyncToken(claims.AppleID, counter),
		Groups:    saved,
	}, http.StatusOK)
}

func (h *ContactsHandler) claims(w http.ResponseWriter, r *http.Request) (*SessionClaims, bool) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "session claims not found in context")
		WriteError(w, h.logger, http.StatusUnauthorized, "", MissingTokenReason)
		return nil, false
	}
	return claims, true
}

func (h *ContactsHandler) collection(w http.ResponseWriter, r *http.Request) (*SessionClaims, *storage.Collection, bool) {
	claims, ok := h.claims(w, r)
	if !ok {
		return nil, nil, false
	}
	collection, err := h.contacts.GetCollection(r.Context(), claims.AppleID)
	if err != nil {
		h.storageError(w, r, err)
		return nil, nil, false
	}
	return claims, collection, true
}

func (h *ContactsHandler) storageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrEtagConflict),
		errors.Is(err, storage.ErrContactAlreadyExists),
		errors.Is(err, storage.ErrGroupAlreadyExists):
		h.logger.WarnContext(r.Context(), "mutation rejected", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, storage.ErrContactNotFound),
		errors.Is(err, storage.ErrGroupNotFound):
		h.logger.WarnContext(r.Context(), "mutation rejected", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, storage.ErrAccountNotFound):
		WriteError(w, h.logger, http.StatusUnauthorized, "", MissingTokenReason)
	default:
		h.logger.ErrorContext(r.Context(), "storage failure", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
	}
}

func isUpdate(r *http.Request) bool {
	return r.URL.Query().Get("method") == http.MethodPut
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
