package route

import (
	"testing"

	"github.com/debthin/debthin/internal/config"
	"github.com/debthin/debthin/internal/ecosystem"
)

func testSet(t *testing.T) *ecosystem.Set {
	t.Helper()
	set, err := ecosystem.NewSet([]config.EcosystemConfig{
		{
			Name:          "debian",
			Upstream:      "deb.debian.org/debian",
			Components:    []string{"main", "contrib"},
			Architectures: []string{"amd64", "all"},
			TrustAssets:   []string{"archive-keyring.gpg", "archive-keyring.asc"},
			Aliases: map[string]string{
				"stable":   "trixie",
				"unstable": "sid",
			},
			Primary: true,
		},
		{
			Name:          "ubuntu",
			Upstream:      "archive.ubuntu.com/ubuntu",
			Components:    []string{"main", "universe"},
			Architectures: []string{"amd64"},
			TrustAssets:   []string{"archive-keyring.gpg"},
			Aliases:       map[string]string{"lts": "noble"},
		},
	})
	if err != nil {
		t.Fatalf("build set: %v", err)
	}
	return set
}

func TestNormalizeDefaultsToPrimary(t *testing.T) {
	set := testSet(t)

	req := Normalize(set, "/dists/stable/Release", "", "http")
	if req.Ecosystem.ID != "debian" {
		t.Fatalf("expected primary ecosystem, got %s", req.Ecosystem.ID)
	}
	if len(req.Segments) != 3 || req.Segments[1] != "trixie" {
		t.Fatalf("alias should resolve in suite segment: %v", req.Segments)
	}
}

func TestNormalizeConsumesEcosystemPrefix(t *testing.T) {
	set := testSet(t)

	req := Normalize(set, "/ubuntu/dists/lts/Release", "", "https")
	if req.Ecosystem.ID != "ubuntu" {
		t.Fatalf("expected ubuntu, got %s", req.Ecosystem.ID)
	}
	if req.Segments[1] != "noble" {
		t.Fatalf("ubuntu alias should resolve: %v", req.Segments)
	}
	if req.Scheme != "https" {
		t.Fatalf("scheme should carry through, got %s", req.Scheme)
	}
}

func TestNormalizeAliasOnlyUnderSuiteTree(t *testing.T) {
	set := testSet(t)

	// 首段不是 dists 时不触发别名解析，pool 路径原样保留。
	req := Normalize(set, "/pool/stable/x/example.deb", "", "http")
	if req.Segments[1] != "stable" {
		t.Fatalf("alias must not apply outside the suite tree: %v", req.Segments)
	}
}

func TestNormalizeEmptyPath(t *testing.T) {
	set := testSet(t)

	for _, raw := range []string{"", "/", "//"} {
		req := Normalize(set, raw, "", "http")
		if len(req.Segments) != 0 {
			t.Fatalf("expected empty segments for %q, got %v", raw, req.Segments)
		}
		if req.Ecosystem.ID != "debian" {
			t.Fatalf("empty path should use primary ecosystem")
		}
	}
}

func TestNormalizeKeepsQuery(t *testing.T) {
	set := testSet(t)

	req := Normalize(set, "/pool/main/a/apt/apt_2.6.1_amd64.deb", "ts=1", "http")
	if req.Query != "ts=1" {
		t.Fatalf("query should carry through, got %q", req.Query)
	}
}
