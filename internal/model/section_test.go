// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestSectionJSONRoundTrip(t *testing.T) {
	orig := Section{
		ID:   "abc-123",
		Type: SectionHero,
		Content: HeroContent{
			Title:    "Welcome",
			Subtitle: "Research lab",
			Buttons:  []Button{{Label: "Learn more", URL: "/about", Variant: "primary"}},
		},
		Settings:  SectionSettings{Alignment: "center", FullWidth: true},
		IsVisible: true,
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Section
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != orig.ID || got.Type != orig.Type {
		t.Fatalf("identity changed: %+v", got)
	}
	hero, ok := got.Content.(HeroContent)
	if !ok {
		t.Fatalf("Content type = %T, want HeroContent", got.Content)
	}
	if hero.Title != "Welcome" || hero.Subtitle != "Research lab" {
		t.Errorf("content fields lost: %+v", hero)
	}
	if len(hero.Buttons) != 1 || hero.Buttons[0].URL != "/about" {
		t.Errorf("buttons lost: %+v", hero.Buttons)
	}
	if !got.Settings.FullWidth || got.Settings.Alignment != "center" {
		t.Errorf("settings lost: %+v", got.Settings)
	}
	if !got.IsVisible {
		t.Error("visibility lost")
	}
}

func TestSectionDecodeDispatch(t *testing.T) {
	tests := []struct {
		typ     SectionType
		content string
		check   func(t *testing.T, c SectionContent)
	}{
		{SectionText, `{"body":"# Hi","format":"markdown"}`, func(t *testing.T, c SectionContent) {
			tc, ok := c.(TextContent)
			if !ok || tc.Body != "# Hi" {
				t.Errorf("got %T %+v", c, c)
			}
		}},
		{SectionGrid, `{"title":"Areas","items":[{"icon":"flask","title":"Chemistry"}]}`, func(t *testing.T, c SectionContent) {
			gc, ok := c.(GridContent)
			if !ok || len(gc.Items) != 1 || gc.Items[0].Title != "Chemistry" {
				t.Errorf("got %T %+v", c, c)
			}
		}},
		{SectionFAQ, `{"items":[{"question":"Q?","answer":"A."}]}`, func(t *testing.T, c SectionContent) {
			fc, ok := c.(FAQContent)
			if !ok || len(fc.Items) != 1 || fc.Items[0].Answer != "A." {
				t.Errorf("got %T %+v", c, c)
			}
		}},
		{SectionMap, `{"lat":52.52,"lng":13.405,"zoom":10}`, func(t *testing.T, c SectionContent) {
			mc, ok := c.(MapContent)
			if !ok || mc.Lat != 52.52 {
				t.Errorf("got %T %+v", c, c)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			raw := `{"id":"s1","type":"` + string(tt.typ) + `","content":` + tt.content + `}`
			var s Section
			if err := json.Unmarshal([]byte(raw), &s); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			tt.check(t, s.Content)
		})
	}
}

func TestUnknownSectionTypePreserved(t *testing.T) {
	raw := `{"id":"s9","type":"hologram","content":{"shape":"cube","spin":true},"is_visible":true}`

	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	rc, ok := s.Content.(RawContent)
	if !ok {
		t.Fatalf("Content type = %T, want RawContent", s.Content)
	}

	// Round-trip must keep the unknown payload byte-compatible.
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again Section
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("re-Unmarshal: %v", err)
	}
	rc2, ok := again.Content.(RawContent)
	if !ok {
		t.Fatalf("re-decoded type = %T", again.Content)
	}

	var a, b map[string]any
	if err := json.Unmarshal(rc.Data, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(rc2.Data, &b); err != nil {
		t.Fatal(err)
	}
	if a["shape"] != b["shape"] || a["spin"] != b["spin"] {
		t.Errorf("unknown payload changed: %v vs %v", a, b)
	}
}

func TestVisibilityDefaultsTrue(t *testing.T) {
	// Sections written before the flag existed carry no is_visible key.
	raw := `{"id":"s1","type":"text","content":{"body":"hi"}}`
	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.IsVisible {
		t.Error("legacy section should default to visible")
	}
}

func TestDefaultContentCoversVocabulary(t *testing.T) {
	for _, typ := range KnownSectionTypes {
		if c := DefaultContent(typ); c == nil {
			t.Errorf("DefaultContent(%s) = nil", typ)
		}
		if _, raw := DefaultContent(typ).(RawContent); raw {
			t.Errorf("DefaultContent(%s) fell through to RawContent", typ)
		}
	}
	if !IsKnownSectionType(SectionHero) {
		t.Error("hero should be a known type")
	}
	if IsKnownSectionType("hologram") {
		t.Error("hologram should be unknown")
	}
}
