// Package catalog manages versioned framework catalog artifacts. It replaces
// the dynamic dependency-grabbing of IDE tooling with an explicit fetch
// service: artifacts are downloaded from declared repositories into a local
// cache directory and their resources are read straight out of the jars.
package catalog

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// DefaultGroup and DefaultArtifact identify the main catalog artifact.
	DefaultGroup    = "org.apache.camel"
	DefaultArtifact = "camel-catalog"

	// MavenCentralURL is the repository every Manager starts with.
	MavenCentralURL = "https://repo1.maven.org/maven2"
)

// Repository is a named artifact repository root.
type Repository struct {
	Name string
	URL  string
}

// Manager downloads and caches versioned catalog artifacts and serves
// resources from the loaded ones. Load failures are swallowed into a false
// return, matching the tolerant contract of the version managers it stands
// in for; the cause is logged.
type Manager struct {
	cacheDir string
	client   *http.Client
	log      *slog.Logger

	mu                     sync.Mutex
	repos                  []Repository
	version                string
	versionJar             string
	runtimeProviderVersion string
	runtimeProviderJar     string
}

// NewManager returns a Manager caching under cacheDir and fetching from
// Maven Central. logger may be nil to use the default.
func NewManager(cacheDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: defaultTimeout},
		log:      logger,
		repos:    []Repository{{Name: "central", URL: MavenCentralURL}},
	}
}

// AddRepository appends a 3rd party repository consulted after the existing
// ones.
func (m *Manager) AddRepository(name, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repos = append(m.repos, Repository{Name: name, URL: url})
}

// Repositories returns the configured repositories in consultation order.
func (m *Manager) Repositories() []Repository {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Repository, len(m.repos))
	copy(out, m.repos)
	return out
}

// LoadVersion makes the given version of the main catalog artifact available,
// downloading it unless already cached. It reports whether the version is
// loaded.
func (m *Manager) LoadVersion(ctx context.Context, version string) bool {
	jar, err := m.ensureArtifact(ctx, DefaultGroup, DefaultArtifact, version)
	if err != nil {
		m.log.Warn("failed to load catalog version", "version", version, "error", err)
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = version
	m.versionJar = jar
	return true
}

// LoadRuntimeProviderVersion makes a runtime-provider artifact available. Its
// resources take precedence over the main catalog's.
func (m *Manager) LoadRuntimeProviderVersion(ctx context.Context, group, artifact, version string) bool {
	jar, err := m.ensureArtifact(ctx, group, artifact, version)
	if err != nil {
		m.log.Warn("failed to load runtime provider version",
			"group", group, "artifact", artifact, "version", version, "error", err)
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runtimeProviderVersion = version
	m.runtimeProviderJar = jar
	return true
}

// LoadedVersion returns the loaded main catalog version, empty when none is.
func (m *Manager) LoadedVersion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// RuntimeProviderLoadedVersion returns the loaded runtime-provider version,
// empty when none is.
func (m *Manager) RuntimeProviderLoadedVersion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runtimeProviderVersion
}

// Resource opens the named entry from the loaded jars, consulting the
// runtime-provider jar first and the main catalog jar second. It reports
// false when no loaded jar contains the entry. The caller closes the reader.
func (m *Manager) Resource(name string) (io.ReadCloser, bool) {
	m.mu.Lock()
	jars := make([]string, 0, 2)
	if m.runtimeProviderJar != "" {
		jars = append(jars, m.runtimeProviderJar)
	}
	if m.versionJar != "" {
		jars = append(jars, m.versionJar)
	}
	m.mu.Unlock()

	for _, jar := range jars {
		if rc, ok := openJarEntry(jar, name); ok {
			return rc, true
		}
	}
	return nil, false
}

// Versions lists the versions of an artifact advertised by the first
// repository serving maven-metadata.xml for it.
func (m *Manager) Versions(ctx context.Context, group, artifact string) ([]string, error) {
	var errs []error
	for _, repo := range m.Repositories() {
		url := repoURL(repo, group, artifact, "maven-metadata.xml")
		data, err := m.fetch(ctx, url)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", repo.Name, err))
			continue
		}
		var meta mavenMetadata
		if err := xml.Unmarshal(data, &meta); err != nil {
			errs = append(errs, fmt.Errorf("%s: failed to parse maven-metadata.xml: %w", repo.Name, err))
			continue
		}
		return meta.Versioning.Versions.Version, nil
	}
	return nil, fmt.Errorf("no repository lists %s:%s: %w", group, artifact, errors.Join(errs...))
}

// ensureArtifact returns the local path of the artifact jar, downloading it
// from the first repository that serves it unless already cached.
func (m *Manager) ensureArtifact(ctx context.Context, group, artifact, version string) (string, error) {
	jarName := artifact + "-" + version + ".jar"
	local := filepath.Join(m.cacheDir,
		filepath.FromSlash(strings.ReplaceAll(group, ".", "/")), artifact, version, jarName)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	var errs []error
	for _, repo := range m.Repositories() {
		url := repoURL(repo, group, artifact, version+"/"+jarName)
		data, err := m.fetch(ctx, url)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", repo.Name, err))
			continue
		}
		if err := writeFileAtomic(local, data); err != nil {
			return "", err
		}
		m.log.Debug("cached catalog artifact", "group", group, "artifact", artifact, "version", version, "repository", repo.Name)
		return local, nil
	}
	return "", fmt.Errorf("artifact %s:%s:%s not found in any repository: %w",
		group, artifact, version, errors.Join(errs...))
}

func repoURL(repo Repository, group, artifact, rest string) string {
	return strings.TrimSuffix(repo.URL, "/") + "/" +
		strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/" + rest
}

// writeFileAtomic writes via a temp file so a failed download never leaves a
// truncated jar behind.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close artifact file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move artifact into cache: %w", err)
	}
	return nil
}

// jarEntry keeps the zip reader open for as long as the entry is being read.
type jarEntry struct {
	io.ReadCloser
	zr *zip.ReadCloser
}

func (e *jarEntry) Close() error {
	err := e.ReadCloser.Close()
	if cerr := e.zr.Close(); err == nil {
		err = cerr
	}
	return err
}

func openJarEntry(jar, name string) (io.ReadCloser, bool) {
	zr, err := zip.OpenReader(jar)
	if err != nil {
		return nil, false
	}
	f, err := zr.Open(name)
	if err != nil {
		_ = zr.Close()
		return nil, false
	}
	return &jarEntry{ReadCloser: f, zr: zr}, true
}

type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string `xml:"latest"`
		Release  string `xml:"release"`
		Versions struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
	} `xml:"versioning"`
}
