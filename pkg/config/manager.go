package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Platform config locations.
const (
	WindowsProgramFilesPath = `C:\ProgramData\Kitcat`
	UnixProgramFilesPath    = "/etc/kitcat"
	ConfigFileName          = "config.json"
)

// Manager layers the config sources: command-line overrides, then
// repository, user, and system files, then builtin defaults. Safe for
// concurrent use.
type Manager struct {
	mu              sync.RWMutex
	stores          map[ConfigLevel]*Store
	commandLine     map[string]string
	builtinDefaults map[string]string
	parser          *Parser
}

// NewManager sets up the store hierarchy; the repository level only
// exists when a repository path is supplied.
func NewManager(repositoryPath kcpath.RepositoryPath) *Manager {
	m := &Manager{
		stores:          make(map[ConfigLevel]*Store),
		commandLine:     make(map[string]string),
		builtinDefaults: make(map[string]string),
		parser:          &Parser{},
	}

	m.initializeStores(repositoryPath)
	m.loadBuiltinDefaults()

	return m
}

// Load reads every level's file, concurrently since they are
// independent.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)

	for _, store := range m.stores {
		s := store
		g.Go(func() error {
			return s.Load()
		})
	}

	return g.Wait()
}

// Get resolves key through the hierarchy, nil when no level has it.
func (m *Manager) Get(key string) *ConfigEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUnsafe(key)
}

// GetAll collects every value of key across the hierarchy, strongest
// level first.
func (m *Manager) GetAll(key string) []*ConfigEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var allEntries []*ConfigEntry

	if value, exists := m.commandLine[key]; exists {
		allEntries = append(allEntries, NewCommandLineEntry(key, value))
	}

	for _, level := range []ConfigLevel{RepositoryLevel, UserLevel, SystemLevel} {
		if store, exists := m.stores[level]; exists {
			allEntries = append(allEntries, store.GetEntries(key)...)
		}
	}

	if value, exists := m.builtinDefaults[key]; exists {
		allEntries = append(allEntries, NewBuiltinEntry(key, value))
	}

	return allEntries
}

// Set writes key at a level and persists that level's file.
func (m *Manager) Set(key, value string, level ConfigLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.validateStore("set", key, level)
	if err != nil {
		return err
	}

	store.Set(key, value)
	return store.Save()
}

// Add appends to a multi-valued key at a level and persists.
func (m *Manager) Add(key, value string, level ConfigLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.validateStore("add", key, level)
	if err != nil {
		return err
	}

	store.Add(key, value)
	return store.Save()
}

// Unset drops key from a level and persists.
func (m *Manager) Unset(key string, level ConfigLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.validateStore("unset", key, level)
	if err != nil {
		return err
	}

	store.Unset(key)
	return store.Save()
}

func (m *Manager) validateStore(operation string, key string, level ConfigLevel) (*Store, error) {
	if !level.CanWrite() {
		return nil, NewConfigError(operation, CodeReadOnlyErr, key, "", level.String(), ErrReadOnly)
	}

	store, exists := m.stores[level]
	if !exists {
		return nil, NewConfigError(operation, CodeNotFoundErr, key, "", level.String(), fmt.Errorf("store does not exist for level"))
	}

	return store, nil
}

// SetCommandLine records a per-invocation override.
func (m *Manager) SetCommandLine(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandLine[key] = value
}

// List returns the effective entry for every known key, sorted.
func (m *Manager) List() []*ConfigEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listUnsafe()
}

func (m *Manager) collectAllKeys() map[string]bool {
	allKeys := make(map[string]bool)

	for key := range m.commandLine {
		allKeys[key] = true
	}
	for _, store := range m.stores {
		for key := range store.GetAllEntries() {
			allKeys[key] = true
		}
	}
	for key := range m.builtinDefaults {
		allKeys[key] = true
	}

	return allKeys
}

// ExportJSON renders one level's file, or the flattened effective
// config when level is nil.
func (m *Manager) ExportJSON(level *ConfigLevel) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if level != nil {
		store, exists := m.stores[*level]
		if !exists {
			return "{}", nil
		}
		return store.ToJSON()
	}

	entries := m.listUnsafe()
	entriesMap := make(map[string][]*ConfigEntry)

	for _, entry := range entries {
		if _, exists := entriesMap[entry.Key]; !exists {
			entriesMap[entry.Key] = []*ConfigEntry{}
		}
		entriesMap[entry.Key] = append(entriesMap[entry.Key], entry)
	}

	return m.parser.Serialize(entriesMap)
}

// ExportYAML exports the effective configuration (respecting the hierarchy) as a
// YAML document. Unlike ExportJSON, which mirrors the on-disk per-level format,
// this always flattens across levels into a single nested document so that the
// result can be handed to another tool or reviewed by a human as a whole.
func (m *Manager) ExportYAML() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configData := make(ConfigFileStructure)
	for _, entry := range m.listUnsafe() {
		if err := setNestedValue(configData, entry.Key, entry.Value); err != nil {
			return nil, err
		}
	}

	data, err := yaml.Marshal(configData)
	if err != nil {
		return nil, NewInvalidFormatError("export", "", err)
	}
	return data, nil
}

// ImportYAML reads a nested YAML document (as produced by ExportYAML) and applies
// every scalar leaf it contains to the given level, overwriting existing keys.
func (m *Manager) ImportYAML(data []byte, level ConfigLevel) error {
	var configData ConfigFileStructure
	if err := yaml.Unmarshal(data, &configData); err != nil {
		return NewInvalidFormatError("import", "", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}

	entries := make(map[string][]*ConfigEntry)
	p := &Parser{}
	if err := p.parseSection(configData, entries, ConfigSource("yaml-import"), level, ""); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.validateStore("import", "", level)
	if err != nil {
		return err
	}

	for key, entryList := range entries {
		for _, entry := range entryList {
			store.Add(key, entry.Value)
		}
	}

	return store.Save()
}

// GetStore exposes one level's store, nil when absent.
func (m *Manager) GetStore(level ConfigLevel) *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores[level]
}

// initializeStores builds the per-level stores. The repository level
// lives inside the .kitcat metadata directory.
func (m *Manager) initializeStores(repositoryPath kcpath.RepositoryPath) {
	systemPath := m.getSystemConfigPath()
	m.stores[SystemLevel] = NewStore(systemPath, SystemLevel)

	userPath := m.getUserConfigPath()
	m.stores[UserLevel] = NewStore(userPath, UserLevel)

	if repositoryPath != "" {
		repoPath := kcpath.AbsolutePath(filepath.Join(repositoryPath.KitPath().String(), ConfigFileName))
		m.stores[RepositoryLevel] = NewStore(repoPath, RepositoryLevel)
	}
}

// getSystemConfigPath picks the platform's system config file.
func (m *Manager) getSystemConfigPath() kcpath.AbsolutePath {
	var path string
	if runtime.GOOS == "windows" {
		path = filepath.Join(WindowsProgramFilesPath, ConfigFileName)
	} else {
		path = filepath.Join(UnixProgramFilesPath, ConfigFileName)
	}
	return kcpath.AbsolutePath(path)
}

// getUserConfigPath resolves ~/.config/kitcat/config.json, falling
// back to the current directory when HOME is unknown.
func (m *Manager) getUserConfigPath() kcpath.AbsolutePath {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return kcpath.AbsolutePath(filepath.Join(homeDir, ".config", "kitcat", ConfigFileName))
}

// loadBuiltinDefaults seeds the weakest layer. The default branch
// matches the one Init points HEAD at.
func (m *Manager) loadBuiltinDefaults() {
	m.builtinDefaults["core.repositoryformatversion"] = "0"
	m.builtinDefaults["core.filemode"] = "true"
	m.builtinDefaults["core.bare"] = "false"
	m.builtinDefaults["core.logallrefupdates"] = "true"
	m.builtinDefaults["init.defaultbranch"] = "master"
	m.builtinDefaults["color.ui"] = "auto"

	if runtime.GOOS == "windows" {
		m.builtinDefaults["core.ignorecase"] = "true"
		m.builtinDefaults["core.autocrlf"] = "true"
	} else {
		m.builtinDefaults["core.ignorecase"] = "false"
		m.builtinDefaults["core.autocrlf"] = "input"
	}
}

// getUnsafe resolves without locking; the caller holds m.mu.
func (m *Manager) getUnsafe(key string) *ConfigEntry {
	if value, exists := m.commandLine[key]; exists {
		return NewCommandLineEntry(key, value)
	}

	entries := m.findInStores(key)
	if len(entries) > 0 {
		return entries[len(entries)-1]
	}

	if value, exists := m.builtinDefaults[key]; exists {
		return NewBuiltinEntry(key, value)
	}

	return nil
}

// listUnsafe lists without locking; the caller holds m.mu.
func (m *Manager) listUnsafe() []*ConfigEntry {
	allKeys := m.collectAllKeys()
	var entries []*ConfigEntry
	for key := range allKeys {
		if entry := m.getUnsafe(key); entry != nil {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}

func (m *Manager) findInStores(key string) []*ConfigEntry {
	levels := []ConfigLevel{RepositoryLevel, UserLevel, SystemLevel}
	for _, level := range levels {
		store, exists := m.stores[level]
		if !exists {
			continue
		}

		entries := store.GetEntries(key)
		if len(entries) > 0 {
			return entries
		}
	}
	return nil
}
