// Package template implements variable cascading and ${...} token
// resolution for the `template`/`template_vars` operators (spec §4.3).
package template

// Context is an ordered map from variable name to resolved string value,
// built by progressive override along the walk order: as the walk visits
// a node, its template_vars are layered on top of the inherited map, with
// later entries overriding earlier ones.
type Context struct {
	values map[string]string
	order  []string
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{values: make(map[string]string)}
}

// Clone returns an independent copy, so a child node can layer its own
// template_vars on top without mutating the parent's view.
func (c *Context) Clone() *Context {
	clone := NewContext()
	for _, k := range c.order {
		clone.Set(k, c.values[k])
	}
	return clone
}

// Set assigns name to value, overriding any prior value for name.
func (c *Context) Set(name, value string) {
	if _, ok := c.values[name]; !ok {
		c.order = append(c.order, name)
	}
	c.values[name] = value
}

// Lookup returns the explicit value bound to name, if any.
func (c *Context) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Merge layers other's entries on top of c, in other's declaration order,
// returning a new Context (c and other are left unmodified).
func (c *Context) Merge(other *Context) *Context {
	merged := c.Clone()
	for _, k := range other.order {
		merged.Set(k, other.values[k])
	}
	return merged
}
