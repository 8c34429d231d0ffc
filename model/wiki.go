// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"net/url"
	"strings"
)

// DefaultLocale is used when a caller passes an empty or unsupported
// locale to WikiLink.
const DefaultLocale = "en"

// wikiHosts maps a locale to its official wiki host. Locales without a
// dedicated wiki fall back to the English one.
var wikiHosts = map[string]string{
	"en": "wiki.guildwars2.com",
	"de": "wiki-de.guildwars2.com",
	"es": "wiki-es.guildwars2.com",
	"fr": "wiki-fr.guildwars2.com",
}

// WikiLink builds the deterministic wiki article URL for a display name:
// spaces become underscores and the result is percent-encoded so
// non-ASCII names survive. Returns "" for an empty name.
func WikiLink(name, locale string) string {
	if name == "" {
		return ""
	}
	host, ok := wikiHosts[locale]
	if !ok {
		host = wikiHosts[DefaultLocale]
	}
	article := strings.ReplaceAll(name, " ", "_")
	return "https://" + host + "/wiki/" + url.PathEscape(article)
}
