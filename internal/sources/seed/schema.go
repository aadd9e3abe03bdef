package seed

// File is the top-level seed document: a list of single-key maps from a
// category name to the sites it holds, so that category order is kept.
//
//	- Developer Tools:
//	    - GitHub:
//	        href: https://github.com
//	        description: Code hosting
type File []map[string][]map[string]SiteProps

// SiteProps are the fields of one seeded site. The site name is the map key
// that holds them.
type SiteProps struct {
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
}
