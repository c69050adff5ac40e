// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // base URL for the sitemap reference
	DisallowAll   bool     // block all crawlers (staging sites)
	DisallowPaths []string // extra paths to disallow
	ExtraRules    string   // appended verbatim
}

// GenerateRobots builds robots.txt content. The API and auth surfaces
// are always excluded from crawling.
func GenerateRobots(cfg RobotsConfig) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	paths := append([]string{"/api/", "/auth/", "/uploads/"}, cfg.DisallowPaths...)
	for _, p := range paths {
		sb.WriteString("Disallow: ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	if cfg.ExtraRules != "" {
		sb.WriteString("\n")
		sb.WriteString(cfg.ExtraRules)
		if !strings.HasSuffix(cfg.ExtraRules, "\n") {
			sb.WriteString("\n")
		}
	}

	if cfg.SiteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(cfg.SiteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}
	return sb.String()
}
