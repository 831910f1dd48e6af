package dashboard

import "strings"

// ResolveLocalizedValue selects the best translation for locale and falls back
// to the supplied value. Keys match case-insensitively and language-region
// pairs (`kn-in`) fall back to their base language (`kn`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

// Localize returns a copy of the manifest whose category and section labels
// are resolved for locale. The receiver is left untouched.
func (doc *PageManifest) Localize(locale string) *PageManifest {
	if doc == nil || normalizeLocale(locale) == "" {
		return doc
	}
	out := *doc
	out.Categories = make([]ManifestCategory, len(doc.Categories))
	for i, cat := range doc.Categories {
		cat.Label = ResolveLocalizedValue(cat.Labels, locale, cat.Label)
		out.Categories[i] = cat
	}
	out.Sections = make([]ManifestSection, len(doc.Sections))
	for i, section := range doc.Sections {
		section.Label = ResolveLocalizedValue(section.Labels, locale, section.Label)
		out.Sections[i] = section
	}
	return &out
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}
