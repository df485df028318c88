package listing

import (
	"fmt"
	"regexp"
)

// Argentine mobile numbers as they appear in free text: an optional +54
// country prefix with optional 9 mobile marker, a 2-4 digit area code, then
// two 4-digit groups separated by spaces or dashes.
var phonePattern = regexp.MustCompile(`(\+54\s*9?\s*)?(\d{2,4})[\s-]?(\d{4})[\s-]?(\d{4})`)

// ExtractPhone scans text for the first phone-shaped digit run and returns
// it in the fixed international display format "+54 9 AA BBBB-CCCC". The
// second return is false when no candidate is present.
func ExtractPhone(text string) (string, bool) {
	m := phonePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("+54 9 %s %s-%s", m[2], m[3], m[4]), true
}
