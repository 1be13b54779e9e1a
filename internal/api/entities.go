package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/liquorlocker/internal/model"
	"github.com/erazemk/liquorlocker/internal/store"
)

// draft is a request body that can be normalized before storage.
type draft[D any] interface {
	Normalized(today model.Date) D
}

// EntityHandler serves the CRUD endpoints of one inventory collection.
type EntityHandler[R any, D draft[D]] struct {
	DB *sql.DB
	// Noun is the capitalized singular used in not-found messages.
	Noun string
	// Singular and Plural appear in failure messages.
	Singular string
	Plural   string
	// Today supplies the date used to complete opened drafts.
	Today func() model.Date

	list   func(context.Context, *sql.DB) ([]R, error)
	get    func(context.Context, *sql.DB, int64) (*R, error)
	create func(context.Context, *sql.DB, D) (*R, error)
	update func(context.Context, *sql.DB, int64, D) (*R, error)
	remove func(context.Context, *sql.DB, int64) (bool, error)
}

// NewBottlesHandler serves /bottles.
func NewBottlesHandler(db *sql.DB) *EntityHandler[model.Bottle, model.BottleInput] {
	return &EntityHandler[model.Bottle, model.BottleInput]{
		DB: db, Noun: "Bottle", Singular: "bottle", Plural: "bottles", Today: model.Today,
		list:   store.ListBottles,
		get:    store.GetBottle,
		create: store.CreateBottle,
		update: store.UpdateBottle,
		remove: store.DeleteBottle,
	}
}

// NewMixersHandler serves /mixers.
func NewMixersHandler(db *sql.DB) *EntityHandler[model.Mixer, model.MixerInput] {
	return &EntityHandler[model.Mixer, model.MixerInput]{
		DB: db, Noun: "Mixer", Singular: "mixer", Plural: "mixers", Today: model.Today,
		list:   store.ListMixers,
		get:    store.GetMixer,
		create: store.CreateMixer,
		update: store.UpdateMixer,
		remove: store.DeleteMixer,
	}
}

// NewFreshHandler serves /fresh.
func NewFreshHandler(db *sql.DB) *EntityHandler[model.Fresh, model.FreshInput] {
	return &EntityHandler[model.Fresh, model.FreshInput]{
		DB: db, Noun: "Fresh item", Singular: "fresh item", Plural: "fresh items", Today: model.Today,
		list:   store.ListFresh,
		get:    store.GetFresh,
		create: store.CreateFresh,
		update: store.UpdateFresh,
		remove: store.DeleteFresh,
	}
}

// List handles GET /<collection>.
func (h *EntityHandler[R, D]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.list(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing "+h.Plural, "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to load %s. Please try again.", h.Plural))
		return
	}
	if items == nil {
		items = []R{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /<collection>.
func (h *EntityHandler[R, D]) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.create(r.Context(), h.DB, in)
	if err != nil {
		slog.Error("creating "+h.Singular, "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to save %s. Please try again.", h.Singular))
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /<collection>/{id}.
func (h *EntityHandler[R, D]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.get(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting "+h.Singular, "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to retrieve %s. Please try again.", h.Singular))
		return
	}
	if item == nil {
		h.notFound(w, id)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /<collection>/{id}. The body replaces the whole record.
func (h *EntityHandler[R, D]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.update(r.Context(), h.DB, id, in)
	if err != nil {
		slog.Error("updating "+h.Singular, "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to update %s. Please try again.", h.Singular))
		return
	}
	if item == nil {
		h.notFound(w, id)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /<collection>/{id}.
func (h *EntityHandler[R, D]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.remove(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("deleting "+h.Singular, "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, fmt.Sprintf("Unable to delete %s. Please try again.", h.Singular))
		return
	}
	if !deleted {
		h.notFound(w, id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode reads, normalizes and validates a request body, writing a 400 on
// failure.
func (h *EntityHandler[R, D]) decode(w http.ResponseWriter, r *http.Request) (D, bool) {
	var in D
	if err := decodeJSON(r, &in); err != nil {
		textError(w, http.StatusBadRequest, "Invalid JSON")
		return in, false
	}
	in = in.Normalized(h.Today())
	if err := model.Validate(in); err != nil {
		textError(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func (h *EntityHandler[R, D]) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		textError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID", h.Singular))
		return 0, false
	}
	return id, true
}

func (h *EntityHandler[R, D]) notFound(w http.ResponseWriter, id int64) {
	textError(w, http.StatusNotFound, fmt.Sprintf("%s with ID %d not found", h.Noun, id))
}
