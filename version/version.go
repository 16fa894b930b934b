package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/anisan-cli/playnorm/filesystem"
	"github.com/anisan-cli/playnorm/network"
	"github.com/anisan-cli/playnorm/util"
	"github.com/anisan-cli/playnorm/where"
	"github.com/metafates/gache"
)

// releaseURL lists the latest published release.
var releaseURL = "https://api.github.com/repos/anisan-cli/playnorm/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.CacheStore{},
})

// Latest returns the newest released version, without the "v" prefix.
// Results are cached for two days to stay clear of the API rate limit.
func Latest() (string, error) {
	cached, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}
	if !expired && cached != "" {
		return cached, nil
	}

	latest, err := fetch(releaseURL)
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(latest)
	return latest, nil
}

func fetch(url string) (string, error) {
	resp, err := network.Client.Get(url)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("release lookup: %w", err)
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}
