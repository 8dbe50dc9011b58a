// Sanitation policies for survey text stored as HTML (welcome text, end
// text, email templates). Keeps formatting markup, strips scripts and event
// handlers before anything reaches the database.
package policy

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var UgcPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

func init() {
	colorRegexp := regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgb\((\d+),\s*(\d+),\s*(\d+)\)|inherit)$`)
	alignRegexp := regexp.MustCompile(`^(left|right|center|justify)$`)

	// Survey authors style welcome/end pages; allow a narrow set of inline
	// styles instead of arbitrary style attributes.
	UgcPolicy.AllowAttrs("style").OnElements("p", "span", "div", "td", "th")
	UgcPolicy.AllowStyles("color", "background-color").Matching(colorRegexp).Globally()
	UgcPolicy.AllowStyles("text-align").Matching(alignRegexp).Globally()

	// Placeholder tokens like {SURVEYNAME} survive both policies untouched;
	// they carry no markup.
	UgcPolicy.AllowTables()
}
