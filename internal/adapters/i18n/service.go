package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// requestKeyPrefix prefixes constraint names when rendering request errors.
const requestKeyPrefix = "request."

// ServiceConfig configures the message service.
type ServiceConfig struct {
	// Catalog holds the loaded messages. Required.
	Catalog *Catalog

	// DefaultLanguage is used when no language is requested or a requested
	// language has no catalog. Required.
	DefaultLanguage string

	// Logger is an optional logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Service renders catalog messages. It holds no mutable state and is safe
// for concurrent use.
type Service struct {
	catalog         *Catalog
	defaultLanguage string
	logger          *slog.Logger
}

var (
	_ ports.MessageService = (*Service)(nil)
	_ ports.HealthChecker  = (*Service)(nil)
)

// NewService creates a message service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("message service: catalog is required")
	}

	if !cfg.Catalog.HasLanguage(cfg.DefaultLanguage) {
		return nil, fmt.Errorf("message service: no catalog for default language %q", cfg.DefaultLanguage)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		catalog:         cfg.Catalog,
		defaultLanguage: cfg.DefaultLanguage,
		logger:          logger,
	}, nil
}

// DefaultLanguage returns the language used when none is requested.
func (s *Service) DefaultLanguage() string {
	return s.defaultLanguage
}

// Exists reports whether key is defined in the default language catalog.
func (s *Service) Exists(key string) bool {
	_, ok := s.catalog.Lookup(s.defaultLanguage, key)
	return ok
}

// Name implements ports.HealthChecker.
func (s *Service) Name() string {
	return "messages"
}

// Check implements ports.HealthChecker. The service is healthy while the
// default language catalog is loaded.
func (s *Service) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.catalog.HasLanguage(s.defaultLanguage) {
		return domain.NewUnavailableError(s.Name(), "default language catalog missing")
	}

	return nil
}

// Get renders msg. With no languages the default language is used; with
// several, the result holds one text per requested language.
func (s *Service) Get(ctx context.Context, msg domain.Message, opts ports.MessageOptions) (domain.Localized, error) {
	if err := ctx.Err(); err != nil {
		return domain.Localized{}, err
	}

	return s.get(msg, opts.Languages), nil
}

// GetRequestErrorsMessage renders one message per constraint of every leaf of
// the error trees. Nested property names are joined with dots.
func (s *Service) GetRequestErrorsMessage(
	ctx context.Context,
	errs []domain.ErrorDescriptor,
	languages []string,
) ([]domain.LocalizedError, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.LocalizedError, 0, len(errs))
	for _, e := range errs {
		out = s.appendRequestErrors(out, nil, e, languages)
	}

	return out, nil
}

func (s *Service) appendRequestErrors(
	out []domain.LocalizedError,
	parents []string,
	e domain.ErrorDescriptor,
	languages []string,
) []domain.LocalizedError {
	path := append(parents[:len(parents):len(parents)], e.Property)

	for _, constraint := range e.Constraints {
		msg := domain.Key(requestKeyPrefix+constraint).
			WithProperty("property", e.Property).
			WithProperty("value", e.Value)

		if param, ok := e.Params[constraint]; ok {
			msg = msg.WithProperty("param", param)
		}

		out = append(out, domain.LocalizedError{
			Property: strings.Join(path, "."),
			Message:  s.get(msg, languages),
		})
	}

	for _, child := range e.Children {
		out = s.appendRequestErrors(out, path, child, languages)
	}

	return out
}

func (s *Service) get(msg domain.Message, languages []string) domain.Localized {
	if len(languages) == 0 {
		return domain.Text(s.render(s.defaultLanguage, msg))
	}

	if len(languages) == 1 {
		return domain.Text(s.render(languages[0], msg))
	}

	texts := make(domain.LocalizedMessage, len(languages))
	for _, lang := range languages {
		texts[lang] = s.render(lang, msg)
	}

	if len(texts) == 1 {
		return domain.Text(texts[languages[0]])
	}

	return domain.PerLanguage(texts)
}

// render looks the key up in lang, then in the default language, and returns
// the key itself when neither defines it.
func (s *Service) render(lang string, msg domain.Message) string {
	resolved, ok := s.catalog.Resolve(lang)
	if !ok {
		resolved = s.defaultLanguage
	}

	tmpl, ok := s.catalog.Lookup(resolved, msg.Key)
	if !ok && resolved != s.defaultLanguage {
		tmpl, ok = s.catalog.Lookup(s.defaultLanguage, msg.Key)
	}

	if !ok {
		s.logger.Debug("message key not found",
			slog.String("key", msg.Key),
			slog.String("language", lang),
		)

		return msg.Key
	}

	return interpolate(tmpl, msg.Properties)
}

// interpolate replaces {name} placeholders with the matching property.
func interpolate(tmpl string, props map[string]any) string {
	if len(props) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}

	pairs := make([]string, 0, len(props)*2)
	for name, value := range props {
		pairs = append(pairs, "{"+name+"}", formatValue(value))
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}
