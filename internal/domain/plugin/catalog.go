package plugin

import "sort"

// Catalog is the set of discovered descriptors, unique by name.
type Catalog struct {
	order  []string
	byName map[string]Descriptor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Descriptor)}
}

// NewCatalogFrom builds a catalog from descriptors, failing on the first
// duplicate name.
func NewCatalogFrom(descs ...Descriptor) (*Catalog, error) {
	c := NewCatalog()
	for _, d := range descs {
		if err := c.add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(d Descriptor) error {
	if prev, ok := c.byName[d.name]; ok {
		return &PluginExistsError{Name: d.name, FirstSeen: prev.source}
	}
	c.byName[d.name] = d
	c.order = append(c.order, d.name)
	return nil
}

// Get looks up a descriptor by name across all categories.
func (c *Catalog) Get(name string) (Descriptor, error) {
	d, ok := c.byName[name]
	if !ok {
		return Descriptor{}, &NotFoundError{Name: name}
	}
	return d, nil
}

// All returns every descriptor in discovery order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// ByCategory groups descriptors by category, preserving discovery order
// within each category.
func (c *Catalog) ByCategory() map[Category][]Descriptor {
	out := make(map[Category][]Descriptor)
	for _, d := range c.All() {
		out[d.category] = append(out[d.category], d)
	}
	return out
}

// InCategory returns the descriptors of one category in discovery order.
func (c *Catalog) InCategory(cat Category) []Descriptor {
	var out []Descriptor
	for _, d := range c.All() {
		if d.category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Names returns all plugin names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.order)
}
