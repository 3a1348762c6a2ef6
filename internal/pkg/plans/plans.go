package plans

import (
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
	TierDeluxe  Tier = "deluxe"
)

// Resource identifies a countable tenant resource gated by plan ceilings.
type Resource string

const (
	ResourceGuests   Resource = "guests"
	ResourceRsvps    Resource = "rsvps"
	ResourceMessages Resource = "messages"
	ResourcePhotos   Resource = "photos"
	ResourceVideos   Resource = "videos"
)

// Unlimited marks a ceiling with no upper bound.
const Unlimited int64 = -1

type Feature string

const (
	FeatureBackgroundAudio    Feature = "background_audio"
	FeatureBackgroundVideo    Feature = "background_video"
	FeatureAdvancedAnimations Feature = "advanced_animations"
)

// Definition describes one subscription tier. Definitions are fixed at
// deploy time and never mutated at runtime.
type Definition struct {
	Tier             Tier
	AccessWindowDays int
	Ceilings         map[Resource]int64
	MaxVideoSeconds  int
	Features         []Feature
}

// HasFeature reports whether the tier includes the given feature flag.
func (d Definition) HasFeature(f Feature) bool {
	for _, feat := range d.Features {
		if feat == f {
			return true
		}
	}
	return false
}

// AccessWindowEnd computes the end of the access window for a wedding date.
func (d Definition) AccessWindowEnd(weddingDate time.Time) time.Time {
	return weddingDate.AddDate(0, 0, d.AccessWindowDays)
}

var catalog = map[Tier]Definition{
	TierBasic: {
		Tier:             TierBasic,
		AccessWindowDays: 30,
		Ceilings: map[Resource]int64{
			ResourceGuests:   50,
			ResourceRsvps:    50,
			ResourceMessages: 50,
			ResourcePhotos:   10,
			ResourceVideos:   0,
		},
		MaxVideoSeconds: 0,
		Features:        nil,
	},
	TierPremium: {
		Tier:             TierPremium,
		AccessWindowDays: 90,
		Ceilings: map[Resource]int64{
			ResourceGuests:   150,
			ResourceRsvps:    150,
			ResourceMessages: 200,
			ResourcePhotos:   50,
			ResourceVideos:   1,
		},
		MaxVideoSeconds: 60,
		Features:        []Feature{FeatureBackgroundAudio},
	},
	TierDeluxe: {
		Tier:             TierDeluxe,
		AccessWindowDays: 365,
		Ceilings: map[Resource]int64{
			ResourceGuests:   Unlimited,
			ResourceRsvps:    Unlimited,
			ResourceMessages: Unlimited,
			ResourcePhotos:   Unlimited,
			ResourceVideos:   3,
		},
		MaxVideoSeconds: 180,
		Features: []Feature{
			FeatureBackgroundAudio,
			FeatureBackgroundVideo,
			FeatureAdvancedAnimations,
		},
	},
}

// Get returns the definition for a tier.
func Get(tier Tier) (Definition, error) {
	def, ok := catalog[tier]
	if !ok {
		return Definition{}, fmt.Errorf("unknown tier %q", tier)
	}
	return def, nil
}

// MustGet is Get for callers that already validated the tier.
func MustGet(tier Tier) Definition {
	def, err := Get(tier)
	if err != nil {
		panic(err)
	}
	return def
}

// Ceiling returns the resource ceiling for a tier. Unknown tiers fall back
// to basic so a corrupted record never grants more than the lowest plan.
func Ceiling(tier Tier, res Resource) int64 {
	def, err := Get(tier)
	if err != nil {
		def = catalog[TierBasic]
	}
	ceiling, ok := def.Ceilings[res]
	if !ok {
		return 0
	}
	return ceiling
}

// Normalize maps arbitrary input to a known tier, defaulting to basic.
func Normalize(raw string) Tier {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TierPremium):
		return TierPremium
	case string(TierDeluxe):
		return TierDeluxe
	default:
		return TierBasic
	}
}

// IsValid reports whether raw names a cataloged tier exactly.
func IsValid(raw string) bool {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierBasic, TierPremium, TierDeluxe:
		return true
	default:
		return false
	}
}

// Rank orders tiers for upgrade/downgrade comparisons.
func Rank(tier Tier) int {
	switch tier {
	case TierDeluxe:
		return 2
	case TierPremium:
		return 1
	default:
		return 0
	}
}

// AllTiers returns the cataloged tiers in ascending rank order.
func AllTiers() []Tier {
	return []Tier{TierBasic, TierPremium, TierDeluxe}
}
