// Package catalog loads the YAML message files behind every localized
// admin string and compiles them into an x/text catalog.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale is checked against and the
// fallback for untranslated keys.
const BaseLocale = "en-US"

const filePattern = "locales/*/*.yaml"

// messageFile is one locales/<locale>/<namespace>.yaml document.
type messageFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle maps locale to message key to text.
type Bundle struct {
	messages map[string]map[string]string
	compiled *xcatalog.Builder
}

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the message files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads every file matching locales/*/*.yaml. A file's locale and
// namespace must match its path and every key must carry the namespace
// prefix. All file problems are reported together.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, filePattern)
	if err != nil {
		return nil, fmt.Errorf("glob message files: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no message files found")
	}
	slices.Sort(paths)

	b := &Bundle{messages: map[string]map[string]string{}}
	seen := map[string]bool{}
	var errs []error
	for _, p := range paths {
		if err := b.load(fsys, p, seen); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s has no message files", BaseLocale)
	}
	if err := b.compile(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) load(fsys fs.FS, p string, seen map[string]bool) error {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	var mf messageFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}

	dir, name := path.Split(p)
	wantLocale := path.Base(dir)
	wantNamespace := strings.TrimSuffix(name, path.Ext(name))
	locale := strings.TrimSpace(mf.Locale)
	namespace := strings.TrimSpace(mf.Namespace)
	switch {
	case locale != wantLocale:
		return fmt.Errorf("%s: locale %q does not match directory %q", p, locale, wantLocale)
	case namespace != wantNamespace:
		return fmt.Errorf("%s: namespace %q does not match file name %q", p, namespace, wantNamespace)
	case len(mf.Messages) == 0:
		return fmt.Errorf("%s: no messages", p)
	case seen[locale+"/"+namespace]:
		return fmt.Errorf("%s: namespace %q defined twice for %s", p, namespace, locale)
	}
	seen[locale+"/"+namespace] = true

	messages := b.messages[locale]
	if messages == nil {
		messages = map[string]string{}
		b.messages[locale] = messages
	}
	for key, text := range mf.Messages {
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, namespace+".") || key == namespace+"." {
			return fmt.Errorf("%s: key %q must start with %q", p, key, namespace+".")
		}
		if _, dup := messages[key]; dup {
			return fmt.Errorf("%s: duplicate key %q", p, key)
		}
		messages[key] = text
	}
	return nil
}

// compile builds the x/text catalog. Each locale is also registered under
// its base language so "pt" and "en" requests resolve.
func (b *Bundle) compile() error {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(language.MustParse(BaseLocale)))
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for _, key := range sortedKeys(b.messages[locale]) {
			for _, t := range tags {
				if err := builder.SetString(t, key, b.messages[locale][key]); err != nil {
					return fmt.Errorf("compile %s/%s: %w", locale, key, err)
				}
			}
		}
	}
	b.compiled = builder
	return nil
}

// Catalog returns the compiled catalog for message.Catalog printers.
func (b *Bundle) Catalog() xcatalog.Catalog {
	return b.compiled
}

// HasLocale reports whether any message file was loaded for locale.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.messages[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return sortedKeys(b.messages)
}

// LocaleMessages returns a copy of one locale's messages.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for key, text := range b.messages[strings.TrimSpace(locale)] {
		out[key] = text
	}
	return out
}

// Message looks key up in locale, then in BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if b == nil || key == "" {
		return "", false
	}
	for _, l := range []string{strings.TrimSpace(locale), BaseLocale} {
		if text, ok := b.messages[l][key]; ok {
			return text, true
		}
	}
	return "", false
}

// MissingKeys lists base-locale keys that locale does not translate.
func (b *Bundle) MissingKeys(locale string) []string {
	var missing []string
	target := b.LocaleMessages(locale)
	for _, key := range sortedKeys(b.LocaleMessages(BaseLocale)) {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}
