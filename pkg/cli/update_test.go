package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blang/semver"
)

func release(tag, name string, draft, pre bool, assets ...string) githubRelease {
	r := githubRelease{TagName: tag, Name: name, Draft: draft, Prerelease: pre}
	for _, a := range assets {
		r.Assets = append(r.Assets, struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		}{a, "https://example.invalid/" + a})
	}
	return r
}

func TestLatestFromReleases(t *testing.T) {
	rels := []githubRelease{
		release("v9.0.0", "", true, false),
		release("v8.0.0", "", false, true),
		release("v1.2.0", "", false, false, "checksums.txt", "fusion_linux_amd64.tar.gz"),
		release("nightly", "release 1.10.0", false, false),
		release("latest", "no version here", false, false),
	}
	got, ok := latestFromReleases(rels)
	if !ok {
		t.Fatalf("no release found")
	}
	if !got.Version.Equals(semver.MustParse("1.10.0")) || got.AssetURL != "" {
		t.Fatalf("latest = %s %q", got.Version, got.AssetURL)
	}

	if _, ok := latestFromReleases(rels[:2]); ok {
		t.Fatalf("drafts and prereleases must be skipped")
	}
}

func TestPickAsset(t *testing.T) {
	r := release("v1.0.0", "", false, false, "checksums.txt", "fusion_darwin_arm64.zip")
	if got := pickAsset(r); got != "https://example.invalid/fusion_darwin_arm64.zip" {
		t.Fatalf("asset = %q", got)
	}
	r = release("v1.0.0", "", false, false, "source.tar.gz", "notes.txt")
	if got := pickAsset(r); got != "https://example.invalid/source.tar.gz" {
		t.Fatalf("fallback asset = %q", got)
	}
}

func TestDetectLatestFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/fusion/releases" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"tag_name":"v0.2.0","assets":[{"name":"fusion_linux_amd64","browser_download_url":"https://dl/x"}]},
			{"tag_name":"v0.3.0-rc1","prerelease":true}]`)
	}))
	defer srv.Close()

	old := releasesAPI
	releasesAPI = srv.URL + "/repos/%s/releases"
	defer func() { releasesAPI = old }()

	got, ok, err := detectLatestFallback("acme/fusion")
	if err != nil || !ok {
		t.Fatalf("detect: ok=%v err=%v", ok, err)
	}
	if got.Version.String() != "0.2.0" || got.AssetURL != "https://dl/x" {
		t.Fatalf("latest = %s %q", got.Version, got.AssetURL)
	}

	if _, _, err := detectLatestFallback("acme/missing"); err == nil {
		t.Fatalf("expected error for a 404")
	}
}
