// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"time"
)

// SecurityTxtConfig holds the fields for /.well-known/security.txt
// (RFC 9116). Contact is required; Expires defaults to one year out.
type SecurityTxtConfig struct {
	Contact   []string
	Expires   time.Time
	Policy    string
	Canonical string
}

// GenerateSecurityTxt builds the security.txt content.
func GenerateSecurityTxt(cfg SecurityTxtConfig) string {
	var sb strings.Builder

	for _, contact := range cfg.Contact {
		if contact != "" {
			sb.WriteString("Contact: ")
			sb.WriteString(contact)
			sb.WriteString("\n")
		}
	}

	expires := cfg.Expires
	if expires.IsZero() {
		expires = time.Now().AddDate(1, 0, 0)
	}
	sb.WriteString("Expires: ")
	sb.WriteString(expires.Format(time.RFC3339))
	sb.WriteString("\n")

	if cfg.Policy != "" {
		sb.WriteString("Policy: ")
		sb.WriteString(cfg.Policy)
		sb.WriteString("\n")
	}
	if cfg.Canonical != "" {
		sb.WriteString("Canonical: ")
		sb.WriteString(cfg.Canonical)
		sb.WriteString("\n")
	}
	return sb.String()
}
