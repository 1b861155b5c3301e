// Package i18n implements the message service: YAML message catalogs per
// language and the rendering of message keys into localized text.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	kfs "github.com/knadh/koanf/providers/fs"
	"github.com/knadh/koanf/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// maxParallelLoads bounds concurrent catalog file parsing.
const maxParallelLoads = 8

// catalogGlob matches locales/<language>/<namespace>.yaml.
const catalogGlob = "locales/*/*.yaml"

//go:embed locales/*/*.yaml
var embeddedLocales embed.FS

// ErrNoCatalogs is returned when a filesystem holds no catalog files.
var ErrNoCatalogs = errors.New("no message catalogs found")

// Catalog holds the messages of every loaded language. The file name of a
// catalog is the first segment of its keys: locales/en/response.yaml defining
// error.structure provides response.error.structure.
type Catalog struct {
	languages map[string]*koanf.Koanf
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every catalog file found in fsys. Files are parsed
// concurrently and merged in path order.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, catalogGlob)
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}

	if len(paths) == 0 {
		return nil, ErrNoCatalogs
	}

	slices.Sort(paths)

	files := make([]*koanf.Koanf, len(paths))
	parser := yaml.Parser()

	var g errgroup.Group
	g.SetLimit(maxParallelLoads)

	for i, p := range paths {
		g.Go(func() error {
			file := koanf.New(".")
			if err := file.Load(kfs.Provider(fsys, p), parser); err != nil {
				return fmt.Errorf("loading catalog %s: %w", p, err)
			}

			files[i] = file

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{languages: make(map[string]*koanf.Koanf)}

	for i, p := range paths {
		lang := path.Base(path.Dir(p))
		namespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

		k, ok := c.languages[lang]
		if !ok {
			k = koanf.New(".")
			c.languages[lang] = k
		}

		if k.Exists(namespace) {
			return nil, fmt.Errorf("catalog %s: namespace %q already loaded for %q", p, namespace, lang)
		}

		if err := k.MergeAt(files[i], namespace); err != nil {
			return nil, fmt.Errorf("merging catalog %s: %w", p, err)
		}
	}

	return c, nil
}

// Languages returns the loaded language identifiers, sorted.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.languages))
	for lang := range c.languages {
		out = append(out, lang)
	}

	slices.Sort(out)

	return out
}

// HasLanguage reports whether a catalog exists for lang.
func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.languages[lang]
	return ok
}

// Lookup returns the template stored under key for lang.
// Keys that resolve to a namespace or group rather than a text are not found.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	k, ok := c.languages[lang]
	if !ok {
		return "", false
	}

	s, ok := k.Get(key).(string)

	return s, ok
}

// Resolve maps a requested language tag to a loaded catalog language.
// It tries the exact tag first and then its base language ("fr-CA" -> "fr").
func (c *Catalog) Resolve(lang string) (string, bool) {
	lang = strings.TrimSpace(lang)
	if c.HasLanguage(lang) {
		return lang, true
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return "", false
	}

	base, _ := tag.Base()
	if c.HasLanguage(base.String()) {
		return base.String(), true
	}

	return "", false
}
