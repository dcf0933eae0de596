package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

var (
	releasesAPI = "https://api.github.com/repos/%s/releases"
	semverRe    = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)
)

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// releaseVersion extracts a semver from the tag, or failing that from the
// release name.
func releaseVersion(r githubRelease) (semver.Version, bool) {
	for _, s := range []string{r.TagName, r.Name} {
		m := semverRe.FindString(s)
		if m == "" {
			continue
		}
		if v, err := semver.Parse(strings.TrimPrefix(m, "v")); err == nil {
			return v, true
		}
	}
	return semver.Version{}, false
}

// pickAsset prefers assets whose names mention a platform, otherwise the
// first asset.
func pickAsset(r githubRelease) string {
	url := ""
	for _, a := range r.Assets {
		n := strings.ToLower(a.Name)
		for _, p := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
			if strings.Contains(n, p) {
				return a.BrowserDownloadURL
			}
		}
		if url == "" {
			url = a.BrowserDownloadURL
		}
	}
	return url
}

// latestFromReleases returns the highest published, non-prerelease release
// carrying a semver tag.
func latestFromReleases(releases []githubRelease) (*selfupdate.Release, bool) {
	type candidate struct {
		ver   semver.Version
		asset string
	}
	var cs []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := releaseVersion(r)
		if !ok {
			continue
		}
		cs = append(cs, candidate{ver: v, asset: pickAsset(r)})
	}
	if len(cs) == 0 {
		return nil, false
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ver.GT(cs[j].ver) })
	return &selfupdate.Release{Version: cs[0].ver, AssetURL: cs[0].asset}, true
}

// detectLatestFallback queries the GitHub Releases API directly. It is more
// tolerant of tag naming than selfupdate.DetectLatest.
func detectLatestFallback(repo string) (*selfupdate.Release, bool, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf(releasesAPI, repo))
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}

	var releases []githubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	latest, found := latestFromReleases(releases)
	return latest, found, nil
}

// CheckForUpdates looks for a newer release of repo and, after asking,
// replaces the running executable. The new version is used on the next start.
func CheckForUpdates(repo string, p *Prompter) error {
	latest, found, err := selfupdate.DetectLatest(repo)
	if err != nil || !found {
		latest, found, err = detectLatestFallback(repo)
	}
	fmt.Fprintf(p.out, "Current version: %s\n", Version)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found || latest == nil {
		fmt.Fprintf(p.out, "No releases found for %s.\n", repo)
		return nil
	}
	fmt.Fprintf(p.out, "Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(Version)
	if perr != nil {
		fmt.Fprintf(p.out, "warning: could not parse current version %q: %v\n", Version, perr)
	} else if latest.Version.LTE(current) {
		fmt.Fprintf(p.out, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(p.out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}

	answer, err := p.PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(p.out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(p.out, "Updated to %s. Restart fusion to use it.\n", latest.Version)
	return nil
}
