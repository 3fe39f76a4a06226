package models

// CatalogItem is one known part inside a project.
type CatalogItem struct {
	ItemType string `json:"itemType"`
	ItemName string `json:"itemName"`
	PartNo   string `json:"partNo"`
}

type ProjectList struct {
	Projects []string `json:"projects"`
}

type ProjectItems struct {
	Items []CatalogItem `json:"items"`
}

// Catalog answers the cascading pickers of the item-in form:
// project -> item types -> item names -> part numbers.
type Catalog struct {
	Project string
	Items   []CatalogItem
}

func (c Catalog) Types() []string {
	return distinct(c.Items, func(CatalogItem) bool { return true }, func(it CatalogItem) string { return it.ItemType })
}

func (c Catalog) Names(itemType string) []string {
	return distinct(c.Items,
		func(it CatalogItem) bool { return it.ItemType == itemType },
		func(it CatalogItem) string { return it.ItemName })
}

func (c Catalog) PartNumbers(itemType, itemName string) []string {
	return distinct(c.Items,
		func(it CatalogItem) bool { return it.ItemType == itemType && it.ItemName == itemName },
		func(it CatalogItem) string { return it.PartNo })
}

func distinct(items []CatalogItem, keep func(CatalogItem) bool, key func(CatalogItem) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		if !keep(it) {
			continue
		}
		k := key(it)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
