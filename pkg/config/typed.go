package config

// TypedConfig is the typed reading surface over a Manager: the handful
// of keys the rest of the tree actually consults, plus generic getters
// for everything else.
type TypedConfig struct {
	manager *Manager
}

func NewTypedConfig(manager *Manager) *TypedConfig {
	return &TypedConfig{
		manager: manager,
	}
}

// RepositoryFormatVersion reads core.repositoryformatversion, 0 when
// unset.
func (tc *TypedConfig) RepositoryFormatVersion() int {
	entry := tc.manager.Get("core.repositoryformatversion")
	if entry == nil {
		return 0
	}
	val, err := entry.AsInt()
	if err != nil {
		return 0
	}
	return val
}

// FileMode reads core.filemode; mode tracking defaults on.
func (tc *TypedConfig) FileMode() bool {
	entry := tc.manager.Get("core.filemode")
	if entry == nil {
		return true
	}
	val, err := entry.AsBoolean()
	if err != nil {
		return true
	}
	return val
}

// Bare reads core.bare, false when unset.
func (tc *TypedConfig) Bare() bool {
	entry := tc.manager.Get("core.bare")
	if entry == nil {
		return false
	}
	val, err := entry.AsBoolean()
	if err != nil {
		return false
	}
	return val
}

// UserName reads user.name, empty when unset.
func (tc *TypedConfig) UserName() string {
	entry := tc.manager.Get("user.name")
	if entry == nil {
		return ""
	}
	return entry.AsString()
}

// UserEmail reads user.email, empty when unset.
func (tc *TypedConfig) UserEmail() string {
	entry := tc.manager.Get("user.email")
	if entry == nil {
		return ""
	}
	return entry.AsString()
}

// DefaultBranch reads init.defaultbranch. The fallback matches the
// branch Init points HEAD at.
func (tc *TypedConfig) DefaultBranch() string {
	entry := tc.manager.Get("init.defaultbranch")
	if entry == nil {
		return "master"
	}
	return entry.AsString()
}

// ColorUI reads color.ui, "auto" when unset.
func (tc *TypedConfig) ColorUI() string {
	entry := tc.manager.Get("color.ui")
	if entry == nil {
		return "auto"
	}
	return entry.AsString()
}

// GetString reads any key as a string, empty when unset.
func (tc *TypedConfig) GetString(key string) string {
	entry := tc.manager.Get(key)
	if entry == nil {
		return ""
	}
	return entry.AsString()
}

// GetInt reads any key as an int.
func (tc *TypedConfig) GetInt(key string) (int, error) {
	entry := tc.manager.Get(key)
	if entry == nil {
		return 0, NewNotFoundError(key, "")
	}
	return entry.AsInt()
}

// GetBool reads any key as a boolean.
func (tc *TypedConfig) GetBool(key string) (bool, error) {
	entry := tc.manager.Get(key)
	if entry == nil {
		return false, NewNotFoundError(key, "")
	}
	return entry.AsBoolean()
}

// GetList reads a comma-separated key as a list.
func (tc *TypedConfig) GetList(key string) []string {
	entry := tc.manager.Get(key)
	if entry == nil {
		return []string{}
	}
	return entry.AsList()
}

// GetAll reads every value of a multi-valued key.
func (tc *TypedConfig) GetAll(key string) []string {
	entries := tc.manager.GetAll(key)
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.AsString())
	}
	return result
}
