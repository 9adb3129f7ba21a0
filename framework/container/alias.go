package container

import (
	"fmt"
	"sort"
	"strings"
)

// Name suffixes recognised when matching provider classes to facade aliases.
const (
	ProviderSuffix = "ServiceProvider"
	FacadeSuffix   = "Facade"
)

// maxAliasDepth bounds alias chains followed during instantiation.
const maxAliasDepth = 16

// ── Aliases ───────────────────────────────────────────────────────────────────

// Alias makes alias an alternative name for class. Instantiating alias builds
// class, and provider registration may use alias as the service key (see
// RegisterProviders). An existing alias is overwritten.
//
//	c.Alias("DB", `Database\ConnectionFacade`)
func (c *Container) Alias(alias, class string) {
	if alias == class {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", alias))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initAliases()
	if _, exists := c.aliases[alias]; !exists {
		c.aliasOrder = append(c.aliasOrder, alias)
	}
	c.aliases[alias] = class
}

// CreateAlias adds every alias → class pair that is not defined yet; existing
// aliases keep their class. Pairs are added in sorted alias order. Calling it
// with an empty map just initializes the alias table.
func (c *Container) CreateAlias(aliases map[string]string) {
	names := make([]string, 0, len(aliases))
	for alias, class := range aliases {
		if alias == class {
			panic(fmt.Sprintf("container: [%s] is aliased to itself", alias))
		}
		names = append(names, alias)
	}
	sort.Strings(names)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.initAliases()
	for _, alias := range names {
		if _, exists := c.aliases[alias]; exists {
			continue
		}
		c.aliasOrder = append(c.aliasOrder, alias)
		c.aliases[alias] = aliases[alias]
	}
}

// GetAlias returns the class aliased by name.
func (c *Container) GetAlias(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.aliases[name]
	return class, ok
}

// Aliases returns a copy of the alias table.
func (c *Container) Aliases() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.aliases))
	for alias, class := range c.aliases {
		out[alias] = class
	}
	return out
}

func (c *Container) initAliases() {
	if c.aliases == nil {
		c.aliases = make(map[string]string)
	}
}

// classCandidates lists the class names tried when instantiating class: the
// alias chain targets first, then class itself.
func (c *Container) classCandidates(class string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	seen := map[string]bool{class: true}
	name := class
	for range maxAliasDepth {
		target, ok := c.aliases[name]
		if !ok || seen[target] {
			break
		}
		seen[target] = true
		out = append(out, target)
		name = target
	}
	return append(out, class)
}

// serviceKeyFor picks the key a provider class is bound under: the first
// alias whose class, stripped of the provider and facade suffixes, names the
// same thing as the provider. Without a match the short class name is used.
//
//	alias "DB" → `Database\ConnectionFacade`
//	serviceKeyFor("ConnectionServiceProvider") == "DB"
func (c *Container) serviceKeyFor(class string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.aliases == nil {
		return "", errMissingAliases()
	}

	base := strings.ReplaceAll(class, ProviderSuffix, "")
	for _, alias := range c.aliasOrder {
		target := shortName(c.aliases[alias])
		if class+FacadeSuffix == target || class == target {
			return alias, nil
		}
		stripped := strings.ReplaceAll(target, ProviderSuffix, "")
		stripped = strings.ReplaceAll(stripped, FacadeSuffix, "")
		if base == stripped {
			return alias, nil
		}
	}
	return class, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tagged makes name a read-time redirect to whatever is bound under iface.
//
//	c.Tagged("Logger", `App\ConsoleLogger`)
//	logger, _ := c.Get("Logger")
func (c *Container) Tagged(name, iface string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[name] = iface
}

// GetTag returns the interface key tagged by name.
func (c *Container) GetTag(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	iface, ok := c.tags[name]
	return iface, ok
}

// HasTag reports whether name is a tag.
func (c *Container) HasTag(name string) bool {
	_, ok := c.GetTag(name)
	return ok
}

// Tags returns a copy of the tag table.
func (c *Container) Tags() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.tags))
	for name, iface := range c.tags {
		out[name] = iface
	}
	return out
}
