package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// HeaderAcceptLanguage is the header clients send their language preferences in.
	HeaderAcceptLanguage = "Accept-Language"

	// ContextKeyLanguage is the gin context key for the resolved language string.
	ContextKeyLanguage = "i18n_lang"
)

// Language returns middleware that resolves the Accept-Language header
// against the supported languages. The result is a comma-separated list of
// supported languages in preference order ("fr,en"), or fallback when nothing
// matches. Requests without the header get no resolved language.
func Language(supported []string, fallback string) gin.HandlerFunc {
	resolver := NewLanguageResolver(supported, fallback)

	return func(c *gin.Context) {
		if header := c.GetHeader(HeaderAcceptLanguage); header != "" {
			lang := resolver.Resolve(header)
			c.Set(ContextKeyLanguage, lang)
			c.Request = c.Request.WithContext(ContextWithLanguage(c.Request.Context(), lang))
		}

		c.Next()
	}
}

// GetLanguage returns the resolved language string, or "" when the request
// had no Accept-Language header.
func GetLanguage(c *gin.Context) string {
	return c.GetString(ContextKeyLanguage)
}

// LanguageResolver matches Accept-Language values to supported languages.
type LanguageResolver struct {
	supported []string
	matcher   language.Matcher
	fallback  string
}

// NewLanguageResolver creates a resolver. Entries of supported that are not
// valid language tags are ignored.
func NewLanguageResolver(supported []string, fallback string) *LanguageResolver {
	names := make([]string, 0, len(supported))
	tags := make([]language.Tag, 0, len(supported))

	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}

		names = append(names, s)
		tags = append(tags, tag)
	}

	return &LanguageResolver{
		supported: names,
		matcher:   language.NewMatcher(tags),
		fallback:  fallback,
	}
}

// Resolve returns the supported languages named by header, most preferred
// first and without duplicates, joined with commas.
func (r *LanguageResolver) Resolve(header string) string {
	if len(r.supported) == 0 {
		return r.fallback
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return r.fallback
	}

	resolved := make([]string, 0, len(tags))
	for _, tag := range tags {
		_, idx, confidence := r.matcher.Match(tag)
		if confidence == language.No {
			continue
		}

		if name := r.supported[idx]; !slices.Contains(resolved, name) {
			resolved = append(resolved, name)
		}
	}

	if len(resolved) == 0 {
		return r.fallback
	}

	return strings.Join(resolved, ",")
}
