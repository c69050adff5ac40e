// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Theme is the nested customization settings object attachable to a page
// or used as the site default. There is no versioning; last write wins.
type Theme struct {
	Name                 string                `json:"name"`
	Layout               LayoutSettings        `json:"layout"`
	Typography           TypographySettings    `json:"typography"`
	Colors               ColorSettings         `json:"colors"`
	Effects              EffectSettings        `json:"effects"`
	Advanced             AdvancedSettings      `json:"advanced"`
	SEO                  SEOSettings           `json:"seo"`
	Performance          PerformanceSettings   `json:"performance"`
	Accessibility        AccessibilitySettings `json:"accessibility"`
	Internationalization I18nSettings          `json:"internationalization"`
	Security             SecuritySettings      `json:"security"`
}

// LayoutSettings controls page structure.
type LayoutSettings struct {
	MaxWidth      string `json:"max_width,omitempty"`
	HeaderStyle   string `json:"header_style,omitempty"` // fixed, static, hidden
	FooterStyle   string `json:"footer_style,omitempty"`
	SidebarWidth  string `json:"sidebar_width,omitempty"`
	SectionGap    string `json:"section_gap,omitempty"`
	ContainerPad  string `json:"container_pad,omitempty"`
	StickyHeader  bool   `json:"sticky_header,omitempty"`
	FullWidthHero bool   `json:"full_width_hero,omitempty"`
}

// TypographySettings controls fonts and text sizing.
type TypographySettings struct {
	HeadingFont   string  `json:"heading_font,omitempty"`
	BodyFont      string  `json:"body_font,omitempty"`
	MonoFont      string  `json:"mono_font,omitempty"`
	BaseSize      string  `json:"base_size,omitempty"`
	HeadingScale  float64 `json:"heading_scale,omitempty"`
	LineHeight    float64 `json:"line_height,omitempty"`
	LetterSpacing string  `json:"letter_spacing,omitempty"`
}

// ColorSettings is the theme palette.
type ColorSettings struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background"`
	Surface    string `json:"surface,omitempty"`
	Text       string `json:"text"`
	TextMuted  string `json:"text_muted,omitempty"`
	Border     string `json:"border,omitempty"`
	Success    string `json:"success,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Error      string `json:"error,omitempty"`
}

// EffectSettings controls visual flourishes.
type EffectSettings struct {
	BorderRadius  string `json:"border_radius,omitempty"`
	ShadowLevel   string `json:"shadow_level,omitempty"` // none, subtle, medium, strong
	Animations    bool   `json:"animations,omitempty"`
	Transitions   string `json:"transitions,omitempty"`
	BackdropBlur  bool   `json:"backdrop_blur,omitempty"`
	GradientHeros bool   `json:"gradient_heros,omitempty"`
}

// AdvancedSettings is the escape hatch for custom code.
type AdvancedSettings struct {
	CustomCSS  string `json:"custom_css,omitempty"`
	CustomJS   string `json:"custom_js,omitempty"`
	HeadHTML   string `json:"head_html,omitempty"`
	FooterHTML string `json:"footer_html,omitempty"`
}

// SEOSettings holds site-wide SEO defaults.
type SEOSettings struct {
	SiteTitle       string `json:"site_title,omitempty"`
	TitleTemplate   string `json:"title_template,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	OGImage         string `json:"og_image,omitempty"`
	TwitterHandle   string `json:"twitter_handle,omitempty"`
	RobotsPolicy    string `json:"robots_policy,omitempty"`
}

// PerformanceSettings controls loading behavior.
type PerformanceSettings struct {
	LazyLoadImages bool `json:"lazy_load_images,omitempty"`
	PreloadFonts   bool `json:"preload_fonts,omitempty"`
	MinifyOutput   bool `json:"minify_output,omitempty"`
	CacheTTL       int  `json:"cache_ttl,omitempty"`
}

// AccessibilitySettings controls a11y behavior.
type AccessibilitySettings struct {
	HighContrast   bool   `json:"high_contrast,omitempty"`
	ReducedMotion  bool   `json:"reduced_motion,omitempty"`
	FocusOutline   string `json:"focus_outline,omitempty"`
	SkipLinks      bool   `json:"skip_links,omitempty"`
	MinTargetSize  string `json:"min_target_size,omitempty"`
}

// I18nSettings controls language behavior.
type I18nSettings struct {
	DefaultLanguage string   `json:"default_language,omitempty"`
	Languages       []string `json:"languages,omitempty"`
	RTL             bool     `json:"rtl,omitempty"`
	DateFormat      string   `json:"date_format,omitempty"`
}

// SecuritySettings controls client-side hardening headers.
type SecuritySettings struct {
	CSP              string `json:"csp,omitempty"`
	FrameOptions     string `json:"frame_options,omitempty"`
	ReferrerPolicy   string `json:"referrer_policy,omitempty"`
	ExternalNofollow bool   `json:"external_nofollow,omitempty"`
}
