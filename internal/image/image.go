// Package image implements the narrow Docker Hub image-fetcher contract the
// rootfs builder consumes: split "name:tag", obtain an anonymous pull
// token, resolve the amd64 manifest, take its last layer, and unpack that
// single layer into a target directory. It deliberately does not implement
// a general-purpose OCI client: no layering, no whiteout handling, no
// digest verification. Any failure here is treated by the caller as "this
// was not an image reference" and falls back to a local directory copy.
package image

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	archive "github.com/moby/go-archive"
)

// Kind enumerates the Image{RequestFailed, Http, Parse, Extract,
// InvalidImage, ArchitectureNotFound, Unpack} error taxonomy.
type Kind int

const (
	RequestFailed Kind = iota
	HTTPStatus
	Parse
	Extract
	InvalidImage
	ArchitectureNotFound
	Unpack
)

// Error is the Image error kind.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidImage:
		return "image: reference must be of the form name:tag"
	case ArchitectureNotFound:
		return "image: no amd64 manifest found"
	case HTTPStatus:
		return fmt.Sprintf("image: registry returned HTTP %d", e.StatusCode)
	default:
		return fmt.Sprintf("image: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

const (
	authURLFmt     = "https://auth.docker.io/token?service=registry.docker.io&scope=repository:%s:pull"
	manifestURLFmt = "https://registry-1.docker.io/v2/%s/manifests/%s"
	blobURLFmt     = "https://registry-1.docker.io/v2/%s/blobs/%s"
	manifestListMT = "application/vnd.docker.distribution.manifest.list.v2+json"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

type authData struct {
	Token string `json:"token"`
}

type platform struct {
	Architecture string `json:"architecture"`
}

type manifestEntry struct {
	Digest    string   `json:"digest"`
	MediaType string   `json:"mediaType"`
	Platform  platform `json:"platform"`
}

type manifestsData struct {
	Manifests []manifestEntry `json:"manifests"`
}

type layerEntry struct {
	Digest string `json:"digest"`
}

type manifestLayers struct {
	Layers []layerEntry `json:"layers"`
}

// Download fetches reference ("name:tag") from Docker Hub and unpacks its
// last layer into target. target must already exist.
func Download(reference, target string) error {
	name, tag, err := splitReference(reference)
	if err != nil {
		return err
	}

	token, err := getAuthToken(name)
	if err != nil {
		return err
	}

	manifest, err := getManifest(token, name, tag)
	if err != nil {
		return err
	}

	layer, err := getLayer(token, name, manifest)
	if err != nil {
		return err
	}

	return downloadLayer(token, name, layer, target)
}

func splitReference(reference string) (name, tag string, err error) {
	parts := strings.SplitN(reference, ":", 3)
	if len(parts) != 2 {
		return "", "", &Error{Kind: InvalidImage}
	}
	return parts[0], parts[1], nil
}

func getAuthToken(name string) (string, error) {
	url := fmt.Sprintf(authURLFmt, name)
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", &Error{Kind: RequestFailed, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: HTTPStatus, StatusCode: resp.StatusCode}
	}

	var data authData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", &Error{Kind: Parse, Err: err}
	}
	return data.Token, nil
}

func getManifest(token, name, tag string) (*manifestEntry, error) {
	url := fmt.Sprintf(manifestURLFmt, name, tag)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: RequestFailed, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", manifestListMT)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: RequestFailed, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: HTTPStatus, StatusCode: resp.StatusCode}
	}

	var data manifestsData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Kind: Parse, Err: err}
	}

	for i := range data.Manifests {
		if data.Manifests[i].Platform.Architecture == "amd64" {
			return &data.Manifests[i], nil
		}
	}
	return nil, &Error{Kind: ArchitectureNotFound}
}

func getLayer(token, name string, manifest *manifestEntry) (*layerEntry, error) {
	url := fmt.Sprintf(manifestURLFmt, name, manifest.Digest)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: RequestFailed, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", manifest.MediaType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: RequestFailed, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: HTTPStatus, StatusCode: resp.StatusCode}
	}

	var data manifestLayers
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &Error{Kind: Parse, Err: err}
	}
	if len(data.Layers) == 0 {
		return nil, &Error{Kind: Parse, Err: fmt.Errorf("manifest has no layers")}
	}
	return &data.Layers[len(data.Layers)-1], nil
}

func downloadLayer(token, name string, layer *layerEntry, target string) error {
	url := fmt.Sprintf(blobURLFmt, name, layer.Digest)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: RequestFailed, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return &Error{Kind: RequestFailed, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: HTTPStatus, StatusCode: resp.StatusCode}
	}

	if err := archive.Untar(resp.Body, target, &archive.TarOptions{NoLchown: true}); err != nil {
		return &Error{Kind: Unpack, Err: err}
	}
	return nil
}
