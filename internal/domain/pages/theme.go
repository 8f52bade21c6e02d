package pages

import (
	"encoding/json"
	"regexp"
	"strconv"

	"pulse/internal/domain/access"
	"pulse/internal/domain/apperr"
)

type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

type ThemeSettings struct {
	PresetID     string       `json:"presetId,omitempty"`
	CustomColors *ThemeColors `json:"customColors,omitempty"`
	Font         string       `json:"font"`
	ButtonStyle  string       `json:"buttonStyle"`
	DarkMode     bool         `json:"darkMode"`
}

type Preset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Colors    ThemeColors `json:"colors"`
	IsPremium bool        `json:"isPremium"`
}

var Presets = []Preset{
	{ID: "sunset", Name: "Sunset", Colors: ThemeColors{"#FF6B35", "#F7C59F", "#FFFAF5", "#1A1A1A", "#E8390E"}},
	{ID: "ocean", Name: "Ocean", Colors: ThemeColors{"#0077B6", "#90E0EF", "#F0F9FF", "#023E8A", "#00B4D8"}},
	{ID: "forest", Name: "Forest", Colors: ThemeColors{"#2D6A4F", "#95D5B2", "#F0FDF4", "#1B4332", "#40916C"}},
	{ID: "lavender", Name: "Lavender", Colors: ThemeColors{"#7C3AED", "#C4B5FD", "#FAF5FF", "#4C1D95", "#8B5CF6"}},
	{ID: "coral", Name: "Coral", Colors: ThemeColors{"#F472B6", "#FBCFE8", "#FDF2F8", "#831843", "#EC4899"}},
	{ID: "midnight", Name: "Midnight", Colors: ThemeColors{"#60A5FA", "#1E3A5F", "#0F172A", "#F1F5F9", "#3B82F6"}},
	{ID: "ember", Name: "Ember", Colors: ThemeColors{"#EF4444", "#FCA5A5", "#FEF2F2", "#7F1D1D", "#DC2626"}},
	{ID: "mint", Name: "Mint", Colors: ThemeColors{"#10B981", "#A7F3D0", "#ECFDF5", "#064E3B", "#34D399"}},
	{ID: "slate", Name: "Slate", Colors: ThemeColors{"#64748B", "#CBD5E1", "#F8FAFC", "#1E293B", "#475569"}},
	{ID: "neon", Name: "Neon", Colors: ThemeColors{"#22D3EE", "#A855F7", "#18181B", "#FAFAFA", "#F97316"}, IsPremium: true},
}

var Fonts = []string{"inter", "poppins", "roboto", "outfit", "playfair"}

var ButtonRadius = map[string]string{
	"rounded": "0.75rem",
	"pill":    "9999px",
	"square":  "0.25rem",
}

var DefaultTheme = ThemeSettings{
	PresetID:    "sunset",
	Font:        "inter",
	ButtonStyle: "rounded",
	DarkMode:    false,
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func FindPreset(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Colors returns the effective palette. Custom colors override the preset.
func (t ThemeSettings) Colors() ThemeColors {
	if t.CustomColors != nil {
		return *t.CustomColors
	}
	if p, ok := FindPreset(t.PresetID); ok {
		return p.Colors
	}
	p, _ := FindPreset(DefaultTheme.PresetID)
	return p.Colors
}

func (t ThemeSettings) Radius() string {
	if r, ok := ButtonRadius[t.ButtonStyle]; ok {
		return r
	}
	return ButtonRadius[DefaultTheme.ButtonStyle]
}

// ValidateTheme parses a theme submitted by the owner. Shape problems are
// validation errors; features above the caller's plan are ErrForbidden.
func ValidateTheme(raw json.RawMessage, policy access.Policy) (ThemeSettings, error) {
	var t ThemeSettings
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, apperr.Invalid("Invalid theme", apperr.Field("theme", "must be an object"))
	}

	var fields []apperr.FieldError
	if t.PresetID == "" && t.CustomColors == nil {
		fields = append(fields, apperr.Field("theme.presetId", "required when customColors is absent"))
	}
	if t.PresetID != "" {
		if _, ok := FindPreset(t.PresetID); !ok {
			fields = append(fields, apperr.Field("theme.presetId", "unknown preset"))
		}
	}
	if t.CustomColors != nil {
		c := t.CustomColors
		for _, kv := range [][2]string{
			{"primary", c.Primary}, {"secondary", c.Secondary}, {"background", c.Background},
			{"text", c.Text}, {"accent", c.Accent},
		} {
			if !hexColor.MatchString(kv[1]) {
				fields = append(fields, apperr.Field("theme.customColors."+kv[0], "must be a #RRGGBB color"))
			}
		}
	}
	if t.Font == "" {
		t.Font = DefaultTheme.Font
	} else if !contains(Fonts, t.Font) {
		fields = append(fields, apperr.Field("theme.font", "unknown font"))
	}
	if t.ButtonStyle == "" {
		t.ButtonStyle = DefaultTheme.ButtonStyle
	} else if _, ok := ButtonRadius[t.ButtonStyle]; !ok {
		fields = append(fields, apperr.Field("theme.buttonStyle", "unknown button style"))
	}
	if len(fields) > 0 {
		return t, apperr.Invalid("Invalid theme", fields...)
	}

	if t.CustomColors != nil && !policy.Can(access.CapCustomColors) {
		return t, apperr.ErrForbidden
	}
	if p, _ := FindPreset(t.PresetID); p.IsPremium && !policy.Can(access.CapPremiumPresets) {
		return t, apperr.ErrForbidden
	}
	return t, nil
}

// ResolveTheme reads a stored theme for rendering. It never fails: anything
// missing or unknown falls back to the default.
func ResolveTheme(raw []byte) ThemeSettings {
	t := DefaultTheme
	if len(raw) == 0 {
		return t
	}
	var stored ThemeSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		return t
	}
	if _, ok := FindPreset(stored.PresetID); ok {
		t.PresetID = stored.PresetID
	}
	if c := stored.CustomColors; c != nil &&
		hexColor.MatchString(c.Primary) && hexColor.MatchString(c.Secondary) &&
		hexColor.MatchString(c.Background) && hexColor.MatchString(c.Text) &&
		hexColor.MatchString(c.Accent) {
		t.CustomColors = c
	}
	if contains(Fonts, stored.Font) {
		t.Font = stored.Font
	}
	if _, ok := ButtonRadius[stored.ButtonStyle]; ok {
		t.ButtonStyle = stored.ButtonStyle
	}
	t.DarkMode = stored.DarkMode
	return t
}

// ContrastColor picks black or white text for a #RRGGBB background.
func ContrastColor(hex string) string {
	if !hexColor.MatchString(hex) {
		return "#FFFFFF"
	}
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
