package seed

import (
	"sort"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
)

// MapSites flattens a seed file into add-site inputs, in file order.
// Validation is left to the importer so that one bad entry only skips
// itself.
func MapSites(file File) []directory.SiteInput {
	var out []directory.SiteInput
	for _, group := range file {
		for _, category := range sortedKeys(group) {
			for _, entry := range group[category] {
				for _, name := range sortedKeys(entry) {
					props := entry[name]
					out = append(out, directory.SiteInput{
						SiteName:    name,
						SiteURL:     props.Href,
						Category:    category,
						Description: props.Description,
						Keywords:    props.Keywords,
						LogoPath:    props.Icon,
					})
				}
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
