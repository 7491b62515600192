package ostinato

import (
	"strconv"

	Mt "github.com/maroda/ostinato/types"
)

// SectionNames are tried in order for unnamed patterns.
var SectionNames = []string{
	"intro",
	"verse",
	"chorus",
	"bridge",
	"breakdown",
	"buildup",
	"drop",
	"outro",
}

// NextPatternName returns the first free section name, then p1, p2, ...
func NextPatternName(doc *Mt.Composition) string {
	for _, name := range SectionNames {
		if _, taken := doc.Patterns[name]; !taken {
			return name
		}
	}
	for n := 1; ; n++ {
		name := "p" + strconv.Itoa(n)
		if _, taken := doc.Patterns[name]; !taken {
			return name
		}
	}
}
