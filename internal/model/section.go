// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// SectionType identifies the kind of block a section renders as.
type SectionType string

// Known section types.
const (
	SectionHero         SectionType = "hero"
	SectionText         SectionType = "text"
	SectionGrid         SectionType = "grid"
	SectionImage        SectionType = "image"
	SectionVideo        SectionType = "video"
	SectionTable        SectionType = "table"
	SectionTimeline     SectionType = "timeline"
	SectionCTA          SectionType = "cta"
	SectionTestimonials SectionType = "testimonials"
	SectionPricing      SectionType = "pricing"
	SectionFAQ          SectionType = "faq"
	SectionStats        SectionType = "stats"
	SectionTeam         SectionType = "team"
	SectionGallery      SectionType = "gallery"
	SectionForm         SectionType = "form"
	SectionMap          SectionType = "map"
	SectionCode         SectionType = "code"
	SectionCarousel     SectionType = "carousel"
	SectionTabs         SectionType = "tabs"
	SectionAccordion    SectionType = "accordion"
)

// KnownSectionTypes lists every type the editor can create, in menu order.
var KnownSectionTypes = []SectionType{
	SectionHero, SectionText, SectionGrid, SectionImage, SectionVideo,
	SectionTable, SectionTimeline, SectionCTA, SectionTestimonials,
	SectionPricing, SectionFAQ, SectionStats, SectionTeam, SectionGallery,
	SectionForm, SectionMap, SectionCode, SectionCarousel, SectionTabs,
	SectionAccordion,
}

// IsKnownSectionType reports whether t is part of the editor vocabulary.
// Stored pages may still carry unknown types from older or newer versions;
// those decode into RawContent and render as a placeholder.
func IsKnownSectionType(t SectionType) bool {
	for _, k := range KnownSectionTypes {
		if k == t {
			return true
		}
	}
	return false
}

// SectionContent is the per-type payload of a section. Each variant is a
// plain struct; unknown types are preserved verbatim as RawContent.
type SectionContent interface {
	sectionContent()
}

// Button is a call-to-action link used by hero, cta and pricing sections.
type Button struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Variant string `json:"variant,omitempty"` // primary, secondary, outline
}

// HeroContent is the payload for hero sections.
type HeroContent struct {
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Buttons         []Button `json:"buttons,omitempty"`
	BackgroundImage string   `json:"background_image,omitempty"`
}

// TextContent is the payload for text sections. Body is interpreted
// according to Format: "markdown" (default) or "html".
type TextContent struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body"`
	Format string `json:"format,omitempty"`
}

// GridItem is one cell of a grid section.
type GridItem struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// GridContent is the payload for grid sections.
type GridContent struct {
	Title   string     `json:"title,omitempty"`
	Columns int        `json:"columns,omitempty"`
	Items   []GridItem `json:"items"`
}

// ImageContent is the payload for image sections.
type ImageContent struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// VideoContent is the payload for video sections.
type VideoContent struct {
	URL      string `json:"url"`
	Poster   string `json:"poster,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
}

// TableContent is the payload for table sections.
type TableContent struct {
	Title   string     `json:"title,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// TimelineEntry is one milestone on a timeline section.
type TimelineEntry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TimelineContent is the payload for timeline sections.
type TimelineContent struct {
	Title   string          `json:"title,omitempty"`
	Entries []TimelineEntry `json:"entries"`
}

// CTAContent is the payload for call-to-action sections.
type CTAContent struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Testimonial is one quote in a testimonials section.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// TestimonialsContent is the payload for testimonials sections.
type TestimonialsContent struct {
	Title string        `json:"title,omitempty"`
	Items []Testimonial `json:"items"`
}

// PricingPlan is one column of a pricing section.
type PricingPlan struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Period   string   `json:"period,omitempty"`
	Features []string `json:"features,omitempty"`
	Button   *Button  `json:"button,omitempty"`
	Featured bool     `json:"featured,omitempty"`
}

// PricingContent is the payload for pricing sections.
type PricingContent struct {
	Title string        `json:"title,omitempty"`
	Plans []PricingPlan `json:"plans"`
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQContent is the payload for faq sections.
type FAQContent struct {
	Title string    `json:"title,omitempty"`
	Items []FAQItem `json:"items"`
}

// Stat is one figure in a stats section.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatsContent is the payload for stats sections.
type StatsContent struct {
	Title string `json:"title,omitempty"`
	Items []Stat `json:"items"`
}

// TeamMember is one person in a team section.
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo string `json:"photo,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// TeamContent is the payload for team sections.
type TeamContent struct {
	Title   string       `json:"title,omitempty"`
	Members []TeamMember `json:"members"`
}

// GalleryImage is one image in a gallery section.
type GalleryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// GalleryContent is the payload for gallery sections.
type GalleryContent struct {
	Title  string         `json:"title,omitempty"`
	Images []GalleryImage `json:"images"`
}

// FormField is one input of a form section.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"` // text, email, textarea, select
	Required bool   `json:"required,omitempty"`
}

// FormContent is the payload for form sections.
type FormContent struct {
	Title       string      `json:"title,omitempty"`
	SubmitLabel string      `json:"submit_label,omitempty"`
	Fields      []FormField `json:"fields"`
}

// MapContent is the payload for map sections.
type MapContent struct {
	Title   string  `json:"title,omitempty"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Zoom    int     `json:"zoom,omitempty"`
}

// CodeContent is the payload for code sections.
type CodeContent struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
}

// CarouselSlide is one slide of a carousel section.
type CarouselSlide struct {
	Image   string `json:"image"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// CarouselContent is the payload for carousel sections.
type CarouselContent struct {
	Slides []CarouselSlide `json:"slides"`
}

// Tab is one pane of a tabs section.
type Tab struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// TabsContent is the payload for tabs sections.
type TabsContent struct {
	Tabs []Tab `json:"tabs"`
}

// AccordionItem is one collapsible entry of an accordion section.
type AccordionItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// AccordionContent is the payload for accordion sections.
type AccordionContent struct {
	Items []AccordionItem `json:"items"`
}

// RawContent preserves the payload of a section whose type this build does
// not understand. It round-trips through storage unchanged.
type RawContent struct {
	Data json.RawMessage
}

func (HeroContent) sectionContent()         {}
func (TextContent) sectionContent()         {}
func (GridContent) sectionContent()         {}
func (ImageContent) sectionContent()        {}
func (VideoContent) sectionContent()        {}
func (TableContent) sectionContent()        {}
func (TimelineContent) sectionContent()     {}
func (CTAContent) sectionContent()          {}
func (TestimonialsContent) sectionContent() {}
func (PricingContent) sectionContent()      {}
func (FAQContent) sectionContent()          {}
func (StatsContent) sectionContent()        {}
func (TeamContent) sectionContent()         {}
func (GalleryContent) sectionContent()      {}
func (FormContent) sectionContent()         {}
func (MapContent) sectionContent()          {}
func (CodeContent) sectionContent()         {}
func (CarouselContent) sectionContent()     {}
func (TabsContent) sectionContent()         {}
func (AccordionContent) sectionContent()    {}
func (RawContent) sectionContent()          {}

// MarshalJSON emits the preserved bytes verbatim.
func (r RawContent) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("{}"), nil
	}
	return r.Data, nil
}

// SectionSettings are presentation options shared by every section type.
type SectionSettings struct {
	Background string `json:"background,omitempty"`
	Padding    string `json:"padding,omitempty"`
	FullWidth  bool   `json:"full_width,omitempty"`
	Alignment  string `json:"alignment,omitempty"` // left, center, right
	TextColor  string `json:"text_color,omitempty"`
	Animation  string `json:"animation,omitempty"`
}

// Section is one renderable block within a page body. ID and Type are
// immutable once the section is created; changing presentation requires
// delete and recreate.
type Section struct {
	ID        string          `json:"id"`
	Type      SectionType     `json:"type"`
	Content   SectionContent  `json:"content"`
	Settings  SectionSettings `json:"settings"`
	IsVisible bool            `json:"is_visible"`
}

// sectionEnvelope is the wire form of a Section.
type sectionEnvelope struct {
	ID        string          `json:"id"`
	Type      SectionType     `json:"type"`
	Content   json.RawMessage `json:"content"`
	Settings  SectionSettings `json:"settings"`
	IsVisible *bool           `json:"is_visible,omitempty"`
}

// UnmarshalJSON decodes a section, dispatching the content payload on the
// stored type. Unknown types are kept as RawContent rather than rejected.
func (s *Section) UnmarshalJSON(data []byte) error {
	var env sectionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding section: %w", err)
	}

	content, err := DecodeContent(env.Type, env.Content)
	if err != nil {
		return fmt.Errorf("decoding %s content: %w", env.Type, err)
	}

	s.ID = env.ID
	s.Type = env.Type
	s.Content = content
	s.Settings = env.Settings
	// Sections written before the visibility flag existed default to visible.
	if env.IsVisible == nil {
		s.IsVisible = true
	} else {
		s.IsVisible = *env.IsVisible
	}
	return nil
}

// DecodeContent unmarshals raw content bytes into the variant for t.
// Unknown types are preserved as RawContent.
func DecodeContent(t SectionType, raw json.RawMessage) (SectionContent, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	switch t {
	case SectionHero:
		var c HeroContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionText:
		var c TextContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionGrid:
		var c GridContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionImage:
		var c ImageContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionVideo:
		var c VideoContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionTable:
		var c TableContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionTimeline:
		var c TimelineContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionCTA:
		var c CTAContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionTestimonials:
		var c TestimonialsContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionPricing:
		var c PricingContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionFAQ:
		var c FAQContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionStats:
		var c StatsContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionTeam:
		var c TeamContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionGallery:
		var c GalleryContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionForm:
		var c FormContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionMap:
		var c MapContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionCode:
		var c CodeContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionCarousel:
		var c CarouselContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionTabs:
		var c TabsContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case SectionAccordion:
		var c AccordionContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return RawContent{Data: append(json.RawMessage(nil), raw...)}, nil
	}
}

// DefaultContent returns the editor's starting payload for a new section
// of the given type. Unknown types get an empty RawContent.
func DefaultContent(t SectionType) SectionContent {
	switch t {
	case SectionHero:
		return HeroContent{Title: "New hero section"}
	case SectionText:
		return TextContent{Body: "", Format: "markdown"}
	case SectionGrid:
		return GridContent{Columns: 3, Items: []GridItem{}}
	case SectionImage:
		return ImageContent{}
	case SectionVideo:
		return VideoContent{}
	case SectionTable:
		return TableContent{Headers: []string{}, Rows: [][]string{}}
	case SectionTimeline:
		return TimelineContent{Entries: []TimelineEntry{}}
	case SectionCTA:
		return CTAContent{Title: "New call to action"}
	case SectionTestimonials:
		return TestimonialsContent{Items: []Testimonial{}}
	case SectionPricing:
		return PricingContent{Plans: []PricingPlan{}}
	case SectionFAQ:
		return FAQContent{Items: []FAQItem{}}
	case SectionStats:
		return StatsContent{Items: []Stat{}}
	case SectionTeam:
		return TeamContent{Members: []TeamMember{}}
	case SectionGallery:
		return GalleryContent{Images: []GalleryImage{}}
	case SectionForm:
		return FormContent{SubmitLabel: "Submit", Fields: []FormField{}}
	case SectionMap:
		return MapContent{Zoom: 12}
	case SectionCode:
		return CodeContent{Language: "plaintext"}
	case SectionCarousel:
		return CarouselContent{Slides: []CarouselSlide{}}
	case SectionTabs:
		return TabsContent{Tabs: []Tab{}}
	case SectionAccordion:
		return AccordionContent{Items: []AccordionItem{}}
	default:
		return RawContent{Data: json.RawMessage("{}")}
	}
}

// DefaultSettings returns the starting presentation options for a new
// section of the given type.
func DefaultSettings(t SectionType) SectionSettings {
	switch t {
	case SectionHero, SectionCTA:
		return SectionSettings{Alignment: "center", FullWidth: true}
	case SectionCode, SectionTable:
		return SectionSettings{Alignment: "left"}
	default:
		return SectionSettings{Alignment: "left"}
	}
}
