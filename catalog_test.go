package inquiro

import (
	"context"
	"strings"
	"testing"
)

type namedTool struct {
	name string
	desc string
	out  string
}

func (t *namedTool) Name() string        { return t.name }
func (t *namedTool) Description() string { return t.desc }
func (t *namedTool) Execute(_ context.Context, _ string) (string, error) {
	return t.out, nil
}

func TestCatalogResolveCaseInsensitive(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{&namedTool{name: "Calculator", desc: "math"}})

	for _, name := range []string{"calculator", "Calculator", "CALCULATOR", " calculator "} {
		if _, ok := catalog.Resolve(name); !ok {
			t.Fatalf("Resolve(%q) failed", name)
		}
	}
	if _, ok := catalog.Resolve("missing"); ok {
		t.Fatal("Resolve should miss for unregistered name")
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	if err := catalog.Register(&namedTool{name: "t"}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if err := catalog.Register(&namedTool{name: "T"}); err == nil {
		t.Fatal("duplicate name (case-insensitive) should be rejected")
	}
}

func TestCatalogRejectsInvalid(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	if err := catalog.Register(nil); err == nil {
		t.Fatal("nil tool should be rejected")
	}
	if err := catalog.Register(&namedTool{name: "   "}); err == nil {
		t.Fatal("blank name should be rejected")
	}
}

func TestCatalogDescribeOrder(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{
		&namedTool{name: "zeta", desc: "last registered first listed? no"},
		&namedTool{name: "alpha", desc: "registration order wins"},
	})

	desc := catalog.Describe()
	if !strings.Contains(desc, "- zeta:") || !strings.Contains(desc, "- alpha:") {
		t.Fatalf("Describe missing entries: %q", desc)
	}
	if strings.Index(desc, "zeta") > strings.Index(desc, "alpha") {
		t.Fatalf("Describe should keep registration order: %q", desc)
	}
}
