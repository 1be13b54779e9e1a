package inventory

import "github.com/erazemk/liquorlocker/internal/model"

// Inventory API resources.
var (
	BottlesResource = Resource{Path: "/bottles", Singular: "bottle", Plural: "bottles"}
	MixersResource  = Resource{Path: "/mixers", Singular: "mixer", Plural: "mixers"}
	FreshResource   = Resource{Path: "/fresh", Singular: "fresh item", Plural: "fresh items"}
)

type (
	Bottles = Store[model.Bottle, model.BottleInput]
	Mixers  = Store[model.Mixer, model.MixerInput]
	Fresh   = Store[model.Fresh, model.FreshInput]
)

// NewBottles creates the bottle store.
func NewBottles(t Transport, opts ...Option) *Bottles {
	return NewStore[model.Bottle, model.BottleInput](BottlesResource, t, opts...)
}

// NewMixers creates the mixer store.
func NewMixers(t Transport, opts ...Option) *Mixers {
	return NewStore[model.Mixer, model.MixerInput](MixersResource, t, opts...)
}

// NewFresh creates the fresh ingredient store.
func NewFresh(t Transport, opts ...Option) *Fresh {
	return NewStore[model.Fresh, model.FreshInput](FreshResource, t, opts...)
}
