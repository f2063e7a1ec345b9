package tenants

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pwproductions/storefront-backend/pkg/config"
	pkgerrors "github.com/pwproductions/storefront-backend/pkg/errors"
)

// ClientStore maps a short client key to its vendor store. A zero StoreID
// marks the client as not yet configured and therefore unavailable.
type ClientStore struct {
	Key         string `json:"key"`
	StoreID     int64  `json:"store_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Available reports whether the client has a configured vendor store.
func (c ClientStore) Available() bool {
	return c.StoreID > 0
}

// ClientInfo is the metadata block attached to tenant-scoped responses.
type ClientInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Info returns the response metadata for the client.
func (c ClientStore) Info() ClientInfo {
	return ClientInfo{Key: c.Key, Name: c.Name, Description: c.Description}
}

// Directory is the immutable client-to-store mapping, built once at startup
// and injected into the gateway.
type Directory struct {
	defaultKey string
	entries    []ClientStore
	index      map[string]ClientStore
}

// defaultEntries mirrors the deployed storefront configuration. Stores
// without an id are listed so the keys are reserved, but resolve as
// unavailable until the id is filled in.
var defaultEntries = []ClientStore{
	{
		Key:         "fire-conversation",
		StoreID:     16236391,
		Name:        "The Fire Conversation Podcast",
		Description: "Official merchandise for The Fire Conversation Podcast",
	},
	{
		Key:         "rob-duran",
		Name:        "Rob Duran Podcast",
		Description: "Official merchandise for Rob Duran Podcast",
	},
	{
		Key:         "sophisticated-savages",
		Name:        "Sophisticated Savages Podcast",
		Description: "Official merchandise for Sophisticated Savages Podcast",
	},
	{
		Key:         "pw-productions",
		Name:        "PWProductions",
		Description: "Official PWProductions merchandise",
	},
}

// NewDirectory builds an immutable directory from the given entries.
func NewDirectory(defaultKey string, entries []ClientStore) (*Directory, error) {
	if strings.TrimSpace(defaultKey) == "" {
		return nil, fmt.Errorf("default client key required")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("client directory must not be empty")
	}

	index := make(map[string]ClientStore, len(entries))
	copied := make([]ClientStore, 0, len(entries))
	for _, entry := range entries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return nil, fmt.Errorf("client entry with empty key")
		}
		if _, exists := index[key]; exists {
			return nil, fmt.Errorf("duplicate client key %q", key)
		}
		entry.Key = key
		index[key] = entry
		copied = append(copied, entry)
	}

	if _, ok := index[defaultKey]; !ok {
		return nil, fmt.Errorf("default client %q not present in directory", defaultKey)
	}

	return &Directory{defaultKey: defaultKey, entries: copied, index: index}, nil
}

// Load builds the directory from configuration, falling back to the
// built-in entries when no JSON override is provided.
func Load(cfg config.TenantsConfig) (*Directory, error) {
	entries := defaultEntries
	if cfg.DirectoryJSON != "" {
		var parsed []ClientStore
		if err := json.Unmarshal([]byte(cfg.DirectoryJSON), &parsed); err != nil {
			return nil, fmt.Errorf("parsing tenants json: %w", err)
		}
		entries = parsed
	}
	return NewDirectory(cfg.DefaultClient, entries)
}

// DefaultKey returns the client key used when a request names none.
func (d *Directory) DefaultKey() string {
	return d.defaultKey
}

// Resolve maps a client key to its store config. An empty key falls back
// to the default client. Unknown keys and keys without a configured store
// fail with the currently available keys attached so callers can
// self-correct.
func (d *Directory) Resolve(key string) (ClientStore, error) {
	if strings.TrimSpace(key) == "" {
		key = d.defaultKey
	}

	entry, ok := d.index[key]
	if !ok || !entry.Available() {
		return ClientStore{}, pkgerrors.New(
			pkgerrors.CodeClientUnavailable,
			fmt.Sprintf("client %q not found or store not configured", key),
		).WithDetails(map[string]any{"available_clients": d.AvailableKeys()})
	}
	return entry, nil
}

// Available filters the directory to clients with a configured store.
// The filter runs on every call rather than being cached.
func (d *Directory) Available() []ClientStore {
	available := make([]ClientStore, 0, len(d.entries))
	for _, entry := range d.entries {
		if entry.Available() {
			available = append(available, entry)
		}
	}
	return available
}

// AvailableKeys returns the sorted keys of available clients.
func (d *Directory) AvailableKeys() []string {
	entries := d.Available()
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	sort.Strings(keys)
	return keys
}
