package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("pt-BR") {
		t.Fatalf("expected locale pt-BR")
	}
	if got := len(bundle.LocaleMessages(BaseLocale)); got == 0 {
		t.Fatalf("expected %s messages", BaseLocale)
	}
}

func TestEmbeddedLocalesTranslateEveryKey(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range bundle.Locales() {
		if missing := bundle.MissingKeys(locale); len(missing) > 0 {
			t.Fatalf("locale %s is missing keys: %v", locale, missing)
		}
	}
}

func TestCatalogDrivesPrinter(t *testing.T) {
	bundle := Default()
	want, ok := bundle.Message("pt-BR", "core.save")
	if !ok {
		t.Fatal("expected pt-BR core.save")
	}
	opt := message.Catalog(bundle.Catalog())
	if got := message.NewPrinter(language.MustParse("pt-BR"), opt).Sprintf("core.save"); got != want {
		t.Fatalf("pt-BR printer = %q, want %q", got, want)
	}
	base, _ := bundle.Message(BaseLocale, "core.save")
	if got := message.NewPrinter(language.English, opt).Sprintf("core.save"); got != base {
		t.Fatalf("en printer = %q, want %q", got, base)
	}
	if got := message.NewPrinter(language.Portuguese, opt).Sprintf("core.save"); got != want {
		t.Fatalf("pt printer = %q, want %q", got, want)
	}
}

func TestLoadFromFSReportsEveryBadFile(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "entities.bad": "nope"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/events.yaml"), `locale: "en-US"
namespace: "entities"
messages:
  "entities.ok": "ok"
`)

	_, err := LoadFromFS(os.DirFS(tempDir))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"core.yaml", "events.yaml"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base, ok := bundle.Message(BaseLocale, "core.save")
	if !ok {
		t.Fatal("expected base core.save")
	}
	if got, ok := bundle.Message("fr-FR", "core.save"); !ok || got != base {
		t.Fatalf("fallback = %q, %v; want %q", got, ok, base)
	}
	if _, ok := bundle.Message(BaseLocale, " "); ok {
		t.Fatal("blank key should not resolve")
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "entities.bad": "nope"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "pt-BR"
namespace: "core"
messages:
  "core.ok": "ok"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/core.yaml"), `locale: "pt-BR"
namespace: "core"
messages:
  "core.ok": "ok"
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), "locale: [\n")

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected yaml error")
	}
}

func TestMissingKeys(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: "en-US"
namespace: "core"
messages:
  "core.a": "a"
  "core.b": "b"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/core.yaml"), `locale: "pt-BR"
namespace: "core"
messages:
  "core.a": "á"
`)

	bundle, err := LoadFromFS(os.DirFS(tempDir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	missing := bundle.MissingKeys("pt-BR")
	if len(missing) != 1 || missing[0] != "core.b" {
		t.Fatalf("missing = %v, want [core.b]", missing)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
