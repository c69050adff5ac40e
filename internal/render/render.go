// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns page sections and markdown bodies into sanitized
// HTML fragments. It deliberately emits fragments only; page chrome and
// layout belong to whatever consumes the API.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/rcmslabs/rcms/internal/model"
)

// htmlSanitizer allows safe user-generated HTML while stripping scripts
// and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown to sanitized HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// SanitizeHTML strips unsafe markup from user-authored HTML.
func SanitizeHTML(src string) template.HTML {
	return template.HTML(htmlSanitizer.Sanitize(src))
}

// Renderer renders sections into HTML fragments.
type Renderer struct {
	tmpl *template.Template
}

// New creates a section renderer with the built-in fragment templates.
func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("sections").Parse(sectionTemplates)),
	}
}

// Page renders all visible sections of a page in order.
func (r *Renderer) Page(p model.Page) (template.HTML, error) {
	var out bytes.Buffer
	for _, s := range p.Sections {
		if !s.IsVisible {
			continue
		}
		frag, err := r.Section(s)
		if err != nil {
			return "", fmt.Errorf("rendering section %s: %w", s.ID, err)
		}
		out.WriteString(string(frag))
	}
	return template.HTML(out.String()), nil
}

// sectionView is the data passed to every fragment template.
type sectionView struct {
	ID       string
	Type     model.SectionType
	Settings model.SectionSettings
	Content  any
	// BodyHTML carries markdown- or user-HTML-derived content, already
	// sanitized.
	BodyHTML template.HTML
}

// Section renders one section. Unknown types render as a placeholder
// rather than failing the whole page.
func (r *Renderer) Section(s model.Section) (template.HTML, error) {
	view := sectionView{ID: s.ID, Type: s.Type, Settings: s.Settings, Content: s.Content}

	name := string(s.Type)
	switch c := s.Content.(type) {
	case model.TextContent:
		var err error
		if c.Format == "html" {
			view.BodyHTML = SanitizeHTML(c.Body)
		} else {
			view.BodyHTML, err = Markdown(c.Body)
			if err != nil {
				return "", err
			}
		}
	case model.RawContent:
		name = "placeholder"
	default:
		if !model.IsKnownSectionType(s.Type) {
			name = "placeholder"
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// sectionTemplates defines one fragment per section type. Fragments are
// intentionally skeletal; styling comes from the theme's CSS.
const sectionTemplates = `
{{define "hero"}}<section class="section section-hero" data-section-id="{{.ID}}">
<h1>{{.Content.Title}}</h1>
{{with .Content.Subtitle}}<p class="subtitle">{{.}}</p>{{end}}
{{range .Content.Buttons}}<a class="btn btn-{{if .Variant}}{{.Variant}}{{else}}primary{{end}}" href="{{.URL}}">{{.Label}}</a>{{end}}
</section>{{end}}

{{define "text"}}<section class="section section-text" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<div class="prose">{{.BodyHTML}}</div>
</section>{{end}}

{{define "grid"}}<section class="section section-grid" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<div class="grid grid-cols-{{if .Content.Columns}}{{.Content.Columns}}{{else}}3{{end}}">
{{range .Content.Items}}<div class="grid-item">{{with .Icon}}<span class="icon">{{.}}</span>{{end}}<h3>{{.Title}}</h3>{{with .Description}}<p>{{.}}</p>{{end}}</div>{{end}}
</div>
</section>{{end}}

{{define "image"}}<figure class="section section-image" data-section-id="{{.ID}}">
<img src="{{.Content.URL}}" alt="{{.Content.Alt}}">
{{with .Content.Caption}}<figcaption>{{.}}</figcaption>{{end}}
</figure>{{end}}

{{define "video"}}<section class="section section-video" data-section-id="{{.ID}}">
<video src="{{.Content.URL}}" controls{{if .Content.Autoplay}} autoplay muted{{end}}{{with .Content.Poster}} poster="{{.}}"{{end}}></video>
</section>{{end}}

{{define "table"}}<section class="section section-table" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<table><thead><tr>{{range .Content.Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Content.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>
</section>{{end}}

{{define "timeline"}}<section class="section section-timeline" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<ol class="timeline">{{range .Content.Entries}}<li><time>{{.Date}}</time><h3>{{.Title}}</h3>{{with .Description}}<p>{{.}}</p>{{end}}</li>{{end}}</ol>
</section>{{end}}

{{define "cta"}}<section class="section section-cta" data-section-id="{{.ID}}">
<h2>{{.Content.Title}}</h2>
{{with .Content.Subtitle}}<p>{{.}}</p>{{end}}
{{range .Content.Buttons}}<a class="btn btn-{{if .Variant}}{{.Variant}}{{else}}primary{{end}}" href="{{.URL}}">{{.Label}}</a>{{end}}
</section>{{end}}

{{define "testimonials"}}<section class="section section-testimonials" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
{{range .Content.Items}}<blockquote><p>{{.Quote}}</p><footer>{{.Author}}{{with .Role}}, {{.}}{{end}}</footer></blockquote>{{end}}
</section>{{end}}

{{define "pricing"}}<section class="section section-pricing" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<div class="plans">{{range .Content.Plans}}<div class="plan{{if .Featured}} featured{{end}}">
<h3>{{.Name}}</h3><p class="price">{{.Price}}{{with .Period}}<span>/{{.}}</span>{{end}}</p>
<ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>
{{with .Button}}<a class="btn" href="{{.URL}}">{{.Label}}</a>{{end}}
</div>{{end}}</div>
</section>{{end}}

{{define "faq"}}<section class="section section-faq" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
{{range .Content.Items}}<details><summary>{{.Question}}</summary><p>{{.Answer}}</p></details>{{end}}
</section>{{end}}

{{define "stats"}}<section class="section section-stats" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<dl>{{range .Content.Items}}<div class="stat"><dt>{{.Label}}</dt><dd>{{.Value}}</dd></div>{{end}}</dl>
</section>{{end}}

{{define "team"}}<section class="section section-team" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<div class="members">{{range .Content.Members}}<div class="member">
{{with .Photo}}<img src="{{.}}" alt="">{{end}}<h3>{{.Name}}</h3>{{with .Role}}<p class="role">{{.}}</p>{{end}}{{with .Bio}}<p>{{.}}</p>{{end}}
</div>{{end}}</div>
</section>{{end}}

{{define "gallery"}}<section class="section section-gallery" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<div class="gallery">{{range .Content.Images}}<img src="{{.URL}}" alt="{{.Alt}}">{{end}}</div>
</section>{{end}}

{{define "form"}}<section class="section section-form" data-section-id="{{.ID}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
<form method="post">{{range .Content.Fields}}<label>{{.Label}}{{if eq .Type "textarea"}}<textarea name="{{.Name}}"{{if .Required}} required{{end}}></textarea>{{else}}<input type="{{.Type}}" name="{{.Name}}"{{if .Required}} required{{end}}>{{end}}</label>{{end}}
<button type="submit">{{if .Content.SubmitLabel}}{{.Content.SubmitLabel}}{{else}}Submit{{end}}</button></form>
</section>{{end}}

{{define "map"}}<section class="section section-map" data-section-id="{{.ID}}" data-lat="{{.Content.Lat}}" data-lng="{{.Content.Lng}}" data-zoom="{{.Content.Zoom}}">
{{with .Content.Title}}<h2>{{.}}</h2>{{end}}
{{with .Content.Address}}<address>{{.}}</address>{{end}}
</section>{{end}}

{{define "code"}}<section class="section section-code" data-section-id="{{.ID}}">
<pre><code class="language-{{.Content.Language}}">{{.Content.Code}}</code></pre>
</section>{{end}}

{{define "carousel"}}<section class="section section-carousel" data-section-id="{{.ID}}">
<div class="slides">{{range .Content.Slides}}<figure class="slide"><img src="{{.Image}}" alt="{{.Title}}">{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}</div>
</section>{{end}}

{{define "tabs"}}<section class="section section-tabs" data-section-id="{{.ID}}">
{{range $i, $t := .Content.Tabs}}<details{{if eq $i 0}} open{{end}}><summary>{{$t.Label}}</summary><div>{{$t.Body}}</div></details>{{end}}
</section>{{end}}

{{define "accordion"}}<section class="section section-accordion" data-section-id="{{.ID}}">
{{range .Content.Items}}<details><summary>{{.Title}}</summary><div>{{.Body}}</div></details>{{end}}
</section>{{end}}

{{define "placeholder"}}<section class="section section-placeholder" data-section-id="{{.ID}}" data-section-type="{{.Type}}">
<p>This content block is not supported by this version.</p>
</section>{{end}}
`
