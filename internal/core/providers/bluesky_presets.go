package providers

import "sort"

// FitMode defines how an image should be fitted to the target dimensions.
type FitMode string

const (
	// FitCover scales the image to cover the target dimensions, cropping if necessary.
	FitCover FitMode = "cover"
	// FitContain scales the image to fit within the target dimensions, preserving aspect ratio.
	FitContain FitMode = "contain"
)

// String returns the string representation of the FitMode.
func (f FitMode) String() string {
	return string(f)
}

// Preset is one of the fixed renditions the Bluesky CDN serves. Presets in
// the same family show the same image at different sizes.
type Preset struct {
	Name   string
	Family string
	Width  int
	Height int
	Fit    FitMode
}

// Validate checks that the preset has valid configuration values.
// Returns nil if valid, or an error describing what is wrong.
func (p Preset) Validate() error {
	if p.Name == "" || p.Family == "" {
		return ErrInvalidPreset
	}
	if p.Width <= 0 {
		return ErrInvalidPreset
	}
	// Height can be 0 for FitContain (proportional scaling)
	if p.Fit == FitCover && p.Height <= 0 {
		return ErrInvalidPreset
	}
	if p.Fit != FitCover && p.Fit != FitContain {
		return ErrInvalidPreset
	}
	return nil
}

// presets is the registry of all Bluesky CDN presets.
var presets = map[string]Preset{
	"avatar_thumbnail": {
		Name:   "avatar_thumbnail",
		Family: "avatar",
		Width:  128,
		Height: 128,
		Fit:    FitCover,
	},
	"avatar": {
		Name:   "avatar",
		Family: "avatar",
		Width:  1000,
		Height: 1000,
		Fit:    FitCover,
	},
	"banner": {
		Name:   "banner",
		Family: "banner",
		Width:  3000,
		Height: 1000,
		Fit:    FitCover,
	},
	"feed_thumbnail": {
		Name:   "feed_thumbnail",
		Family: "feed",
		Width:  1000,
		Height: 0,
		Fit:    FitContain,
	},
	"feed_fullsize": {
		Name:   "feed_fullsize",
		Family: "feed",
		Width:  2000,
		Height: 0,
		Fit:    FitContain,
	},
}

// GetPreset returns the preset configuration for the given name.
// Returns ErrInvalidPreset if the preset name is not found.
func GetPreset(name string) (Preset, error) {
	if name == "" {
		return Preset{}, ErrInvalidPreset
	}
	preset, exists := presets[name]
	if !exists {
		return Preset{}, ErrInvalidPreset
	}
	return preset, nil
}

// ListPresets returns all presets, ordered by family and then width.
func ListPresets() []Preset {
	result := make([]Preset, 0, len(presets))
	for _, p := range presets {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Family != result[j].Family {
			return result[i].Family < result[j].Family
		}
		return result[i].Width < result[j].Width
	})
	return result
}

// PresetForWidth returns the smallest preset in family that is at least
// width wide, or the largest preset of the family when none is.
func PresetForWidth(family string, width int) (Preset, error) {
	var best, largest Preset
	for _, p := range ListPresets() {
		if p.Family != family {
			continue
		}
		if p.Width > largest.Width {
			largest = p
		}
		if p.Width >= width && (best.Name == "" || p.Width < best.Width) {
			best = p
		}
	}
	if best.Name != "" {
		return best, nil
	}
	if largest.Name != "" {
		return largest, nil
	}
	return Preset{}, ErrInvalidPreset
}
