package internal

import (
	"strings"
	"testing"

	"github.com/starford/jera/internal/page"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestSourcesConfig_RequiresAllRoots(t *testing.T) {
	cfg := SourcesConfig{Workspace: ".", Demos: "demos", Experiments: "", Snippets: "snippets"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing experiments root should fail validation")
	}
}

func TestSourcesConfig_Roots(t *testing.T) {
	cfg := SourcesConfig{Workspace: ".", Demos: "d", Experiments: "e", Snippets: "s"}
	roots := cfg.Roots()
	if roots[page.Demos] != "d" || roots[page.Experiments] != "e" || roots[page.Snippets] != "s" {
		t.Errorf("roots = %v", roots)
	}
}

func TestSiteConfig_UnknownDescriptionCategory(t *testing.T) {
	cfg := SiteConfig{
		Branch:            "main",
		DefaultDifficulty: "medium",
		Descriptions:      map[string]string{"tutorials": "nope"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown description category should fail validation")
	}
	if !strings.Contains(err.Error(), "tutorials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSiteConfig_FallbackDescriptions(t *testing.T) {
	cfg := SiteConfig{Descriptions: map[string]string{"demos": "A demo."}}
	got := cfg.FallbackDescriptions()
	if got[page.Demos] != "A demo." {
		t.Errorf("descriptions = %v", got)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("Address() = %q", got)
	}
}
