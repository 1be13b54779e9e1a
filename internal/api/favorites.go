package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/liquorlocker/internal/model"
	"github.com/erazemk/liquorlocker/internal/store"
)

// FavoritesHandler handles the saved cocktail endpoints.
type FavoritesHandler struct {
	DB *sql.DB
}

// List handles GET /favorites.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := store.ListFavorites(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing favorites", "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, "Unable to load favorites. Please try again.")
		return
	}
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	jsonResponse(w, http.StatusOK, favorites)
}

// Create handles POST /favorites.
func (h *FavoritesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fav model.Favorite
	if err := decodeJSON(r, &fav); err != nil {
		textError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	fav.Name = strings.TrimSpace(fav.Name)
	if fav.Name == "" {
		textError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	created, err := store.CreateFavorite(r.Context(), h.DB, fav)
	if err != nil {
		slog.Error("creating favorite", "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, "Unable to save favorite. Please try again.")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Delete handles DELETE /favorites?id=N.
func (h *FavoritesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		textError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	deleted, err := store.DeleteFavorite(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("deleting favorite", "error", err, "request_id", RequestID(r.Context()))
		textError(w, http.StatusInternalServerError, "Unable to delete favorite. Please try again.")
		return
	}
	if !deleted {
		textError(w, http.StatusNotFound, "Favorite with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
