package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/boilerplate-api/internal/auth"
	"github.com/sakif/boilerplate-api/internal/service"
)

// ItemHandler manages CRUD operations for the item resource.
//
// Every route here sits behind RequireAuth, so the user ID is always in the
// request context. The handler passes it down and lets the service enforce
// ownership — a handler never decides authorisation rules itself.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// createItemRequest is the POST /items body.
type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateItemRequest is the PATCH /items/{id} body. Pointer fields
// distinguish "absent" from "set to zero value".
type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// HandleList returns the authenticated user's items, newest first.
//
// HTTP: GET /items
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	items, err := h.items.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGet returns a single item.
//
// HTTP: GET /items/{id}
//
// A missing item is 404; an item owned by someone else is 403. The split
// leaks the item's existence to non-owners — acceptable for opaque xid
// identifiers, which aren't enumerable.
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	item, err := h.items.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleCreate makes a new item owned by the authenticated user.
//
// HTTP: POST /items
// BODY: {"title": "my item", "description": "optional"}
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.items.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleUpdate applies a partial update to an item.
//
// HTTP: PATCH /items/{id}
// BODY: any of {"title": "...", "description": "...", "isActive": false}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.items.Update(r.Context(), id, userID, service.UpdateItemParams{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDelete removes an item.
//
// HTTP: DELETE /items/{id}
//
// Responds 204 with no body on success.
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.items.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
