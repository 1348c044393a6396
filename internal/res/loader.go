// Package res loads font files and source documents from local paths,
// search directories, http(s) URLs and data URLs.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when a resource exists in none of the places the
// loader looks.
var ErrNotFound = errors.New("resource not found")

// ErrWrongType is returned by the typed loaders when the resource is of a
// different kind.
var ErrWrongType = errors.New("unexpected resource type")

// maxRemoteSize bounds a single remote download.
const maxRemoteSize = 32 << 20

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeFont is a TrueType or OpenType font
	ResourceTypeFont
	// ResourceTypeDocument is a text, Markdown or HTML source document
	ResourceTypeDocument
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader handles loading resources. It is safe for concurrent use;
// simultaneous loads of the same location share one fetch.
type Loader struct {
	// Base URL or file path for resolving relative locations
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex
	group     singleflight.Group

	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader. A nil client means
// http.DefaultClient.
func NewLoader(baseURL string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		client:  client,
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	if path == "" {
		return
	}
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL, data URL or file path.
func (l *Loader) Load(ctx context.Context, location string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[location]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	v, err, _ := l.group.Do(location, func() (any, error) {
		res, err := l.fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		l.cacheLock.Lock()
		l.cache[location] = res
		l.cacheLock.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Resource), nil
}

func (l *Loader) fetch(ctx context.Context, location string) (*Resource, error) {
	if strings.HasPrefix(location, "data:") {
		return parseDataURL(location)
	}

	resolved, err := l.resolveURL(location)
	if err != nil {
		return nil, err
	}
	if isRemote(resolved) {
		return l.loadRemote(ctx, resolved)
	}
	return l.loadLocal(resolved, location)
}

// parseDataURL parses a data URL (RFC 2397).
//
//	data:font/ttf;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.QueryUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: u, Data: data, MimeType: mime, Type: determineResourceType(mime, "")}, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// resolveURL resolves a location relative to the base URL
func (l *Loader) resolveURL(location string) (string, error) {
	if isRemote(location) || filepath.IsAbs(location) {
		return location, nil
	}

	if !isRemote(l.BaseURL) {
		if l.BaseURL == "" {
			return location, nil
		}
		return filepath.Join(l.BaseURL, location), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, location string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP error: %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, err
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" {
		mime = determineMimeType(location)
	}
	return &Resource{
		URL:      location,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, location),
	}, nil
}

// loadLocal reads path, the location resolved against the base URL. When it
// does not exist the search paths are tried with the location as given.
func (l *Loader) loadLocal(path, location string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(location)
		}
		return nil, err
	}
	return localResource(path, data), nil
}

// loadFromSearchPaths tries the search directories with the relative path
// first and then with its base name.
func (l *Loader) loadFromSearchPaths(name string) (*Resource, error) {
	candidates := []string{name}
	if base := filepath.Base(name); base != name {
		candidates = append(candidates, base)
	}
	for _, dir := range l.searchPaths {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			return localResource(path, data), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func localResource(path string, data []byte) *Resource {
	mime := determineMimeType(path)
	return &Resource{
		URL:      path,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, path),
	}
}

func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".txt", ".text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func determineResourceType(mimeType, path string) ResourceType {
	switch {
	case strings.HasPrefix(mimeType, "font/"),
		mimeType == "application/x-font-ttf",
		mimeType == "application/font-sfnt":
		return ResourceTypeFont
	case strings.HasPrefix(mimeType, "text/"):
		return ResourceTypeDocument
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return ResourceTypeFont
	case ".md", ".markdown", ".html", ".htm", ".txt", ".text":
		return ResourceTypeDocument
	}
	return ResourceTypeOther
}

// LoadFont loads a font resource
func (l *Loader) LoadFont(ctx context.Context, location string) (*Resource, error) {
	return l.loadTyped(ctx, location, ResourceTypeFont)
}

// LoadDocument loads a source document
func (l *Loader) LoadDocument(ctx context.Context, location string) (*Resource, error) {
	return l.loadTyped(ctx, location, ResourceTypeDocument)
}

func (l *Loader) loadTyped(ctx context.Context, location string, want ResourceType) (*Resource, error) {
	res, err := l.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	if res.Type != want {
		return nil, fmt.Errorf("%w: %s is %s", ErrWrongType, location, res.MimeType)
	}
	return res, nil
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}
