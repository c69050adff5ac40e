// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import "github.com/rcmslabs/rcms/internal/model"

// Presets is the fixed list of named starting themes. Custom themes are
// deep-copied from a preset and then field-edited; the presets themselves
// are never mutated.
var Presets = []model.Theme{
	{
		Name: "Modern Dark",
		Layout: model.LayoutSettings{
			MaxWidth:     "1200px",
			HeaderStyle:  "fixed",
			SectionGap:   "4rem",
			StickyHeader: true,
		},
		Typography: model.TypographySettings{
			HeadingFont:  "Inter",
			BodyFont:     "Inter",
			MonoFont:     "JetBrains Mono",
			BaseSize:     "16px",
			HeadingScale: 1.25,
			LineHeight:   1.6,
		},
		Colors: model.ColorSettings{
			Primary:    "#6366f1",
			Secondary:  "#8b5cf6",
			Accent:     "#22d3ee",
			Background: "#0f172a",
			Surface:    "#1e293b",
			Text:       "#f1f5f9",
			TextMuted:  "#94a3b8",
			Border:     "#334155",
		},
		Effects: model.EffectSettings{
			BorderRadius: "0.75rem",
			ShadowLevel:  "medium",
			Animations:   true,
			BackdropBlur: true,
		},
		SEO:         model.SEOSettings{TitleTemplate: "%s | Research Lab"},
		Performance: model.PerformanceSettings{LazyLoadImages: true, PreloadFonts: true, CacheTTL: 3600},
		Accessibility: model.AccessibilitySettings{
			FocusOutline: "2px solid #6366f1",
			SkipLinks:    true,
		},
		Internationalization: model.I18nSettings{DefaultLanguage: "en", DateFormat: "2006-01-02"},
		Security:             model.SecuritySettings{FrameOptions: "DENY", ReferrerPolicy: "strict-origin-when-cross-origin"},
	},
	{
		Name: "Cyberpunk",
		Layout: model.LayoutSettings{
			MaxWidth:      "1400px",
			HeaderStyle:   "fixed",
			SectionGap:    "6rem",
			FullWidthHero: true,
		},
		Typography: model.TypographySettings{
			HeadingFont:  "Orbitron",
			BodyFont:     "Rajdhani",
			MonoFont:     "Fira Code",
			BaseSize:     "17px",
			HeadingScale: 1.4,
			LineHeight:   1.5,
		},
		Colors: model.ColorSettings{
			Primary:    "#ff2d78",
			Secondary:  "#00f0ff",
			Accent:     "#faff00",
			Background: "#050510",
			Surface:    "#10101f",
			Text:       "#e0e0ff",
			TextMuted:  "#7070a0",
			Border:     "#2a2a4a",
		},
		Effects: model.EffectSettings{
			BorderRadius:  "0",
			ShadowLevel:   "strong",
			Animations:    true,
			GradientHeros: true,
		},
		SEO:         model.SEOSettings{TitleTemplate: "%s — Research Lab"},
		Performance: model.PerformanceSettings{LazyLoadImages: true, CacheTTL: 1800},
		Accessibility: model.AccessibilitySettings{
			FocusOutline: "2px solid #00f0ff",
			SkipLinks:    true,
		},
		Internationalization: model.I18nSettings{DefaultLanguage: "en", DateFormat: "2006-01-02"},
		Security:             model.SecuritySettings{FrameOptions: "DENY"},
	},
	{
		Name: "Clean Light",
		Layout: model.LayoutSettings{
			MaxWidth:    "1100px",
			HeaderStyle: "static",
			SectionGap:  "3rem",
		},
		Typography: model.TypographySettings{
			HeadingFont:  "Source Serif Pro",
			BodyFont:     "Source Sans Pro",
			MonoFont:     "Source Code Pro",
			BaseSize:     "16px",
			HeadingScale: 1.2,
			LineHeight:   1.7,
		},
		Colors: model.ColorSettings{
			Primary:    "#0f766e",
			Secondary:  "#115e59",
			Accent:     "#f59e0b",
			Background: "#ffffff",
			Surface:    "#f8fafc",
			Text:       "#0f172a",
			TextMuted:  "#64748b",
			Border:     "#e2e8f0",
		},
		Effects: model.EffectSettings{
			BorderRadius: "0.375rem",
			ShadowLevel:  "subtle",
		},
		SEO:         model.SEOSettings{TitleTemplate: "%s | Research Lab"},
		Performance: model.PerformanceSettings{LazyLoadImages: true, MinifyOutput: true, CacheTTL: 7200},
		Accessibility: model.AccessibilitySettings{
			HighContrast: false,
			SkipLinks:    true,
		},
		Internationalization: model.I18nSettings{DefaultLanguage: "en", DateFormat: "Jan 2, 2006"},
		Security:             model.SecuritySettings{FrameOptions: "SAMEORIGIN"},
	},
}

// DefaultPreset returns the preset used when no site theme is stored.
func DefaultPreset() model.Theme {
	return Presets[0]
}

// PresetByName returns a copy of the named preset, or false when no
// preset matches.
func PresetByName(name string) (model.Theme, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return model.Theme{}, false
}
