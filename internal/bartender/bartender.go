// Package bartender asks the backend's AI service for cocktail
// recommendations and manages saved favorites.
package bartender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/localstore"
	"github.com/erazemk/liquorlocker/internal/model"
)

// RecommendationPath is the recommendation endpoint.
const RecommendationPath = "/cocktails/recommendation"

// Transport performs the HTTP calls. *client.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// ModelSource reports the AI configuration. *aiconfig.Service implements it.
type ModelSource interface {
	IsConfigured() bool
	SelectedModel() string
}

// Bartender requests recommendations with the selected model.
type Bartender struct {
	api   Transport
	ai    ModelSource
	local localstore.Storage
}

// New creates a Bartender.
func New(api Transport, ai ModelSource, local localstore.Storage) *Bartender {
	return &Bartender{api: api, ai: ai, local: local}
}

// Recommend asks for cocktails that can be made from the current inventory.
// The AI service must be configured and a model selected. The result is
// cached in local storage.
func (b *Bartender) Recommend(ctx context.Context) (*model.Recommendation, error) {
	if !b.ai.IsConfigured() {
		return nil, apperr.Precondition("AI service is not configured. Add your API settings first.")
	}
	m := b.ai.SelectedModel()
	if m == "" {
		return nil, apperr.Precondition("Select a model first.")
	}

	var raw string
	if err := b.api.Post(ctx, RecommendationPath, map[string]string{"model": m}, &raw); err != nil {
		return nil, err
	}

	rec := parseRecommendation(raw)
	if err := localstore.SetJSON(b.local, localstore.KeyRecommendations, rec); err != nil {
		slog.Warn("caching recommendation failed", "error", err)
	}
	slog.Info("received recommendation", "model", m, "cocktails", len(rec.Cocktails))
	return rec, nil
}

// Cached returns the last recommendation, if any.
func (b *Bartender) Cached() (*model.Recommendation, bool) {
	var rec model.Recommendation
	if !localstore.GetJSON(b.local, localstore.KeyRecommendations, &rec) {
		return nil, false
	}
	return &rec, true
}

// parseRecommendation accepts a structured body or free text. An object with
// a cocktails list is structured even when the list is empty.
func parseRecommendation(raw string) *model.Recommendation {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		if _, ok := fields["cocktails"]; ok {
			var rec model.Recommendation
			if err := json.Unmarshal([]byte(raw), &rec); err == nil {
				return &rec
			}
		}
	}

	var text string
	if err := json.Unmarshal([]byte(raw), &text); err == nil {
		return &model.Recommendation{Text: strings.TrimSpace(text)}
	}
	return &model.Recommendation{Text: strings.TrimSpace(raw)}
}

// FavoritesPath is the favorites endpoint.
const FavoritesPath = "/favorites"

// Favorites manages saved cocktails.
type Favorites struct {
	api Transport
}

// NewFavorites creates a Favorites client.
func NewFavorites(api Transport) *Favorites {
	return &Favorites{api: api}
}

// List returns the saved favorites.
func (f *Favorites) List(ctx context.Context) ([]model.Favorite, error) {
	var favs []model.Favorite
	if err := f.api.Get(ctx, FavoritesPath, &favs); err != nil {
		return nil, apperr.Describe(err, apperr.OpLoad, "favorite", "favorites")
	}
	return favs, nil
}

// Save stores a recommended cocktail as a favorite.
func (f *Favorites) Save(ctx context.Context, c model.Cocktail) (model.Favorite, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Favorite{}, apperr.Validation("Name is required.")
	}
	var saved model.Favorite
	if err := f.api.Post(ctx, FavoritesPath, model.FavoriteFrom(c), &saved); err != nil {
		return model.Favorite{}, apperr.Describe(err, apperr.OpSave, "favorite", "favorites")
	}
	return saved, nil
}

// Delete removes a favorite.
func (f *Favorites) Delete(ctx context.Context, id int) error {
	if err := f.api.Delete(ctx, fmt.Sprintf("%s?id=%d", FavoritesPath, id)); err != nil {
		return apperr.Describe(err, apperr.OpDelete, "favorite", "favorites")
	}
	return nil
}
