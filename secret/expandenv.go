package secret

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

const dollarSentinel = "\x00WEBVIDEO_DOLLAR\x00"

// ExpandEnvStrict expands $VAR and ${VAR} in s. A ${VAR} that is not set
// is an error; $$ yields a literal $.
func ExpandEnvStrict(s string) (string, error) {
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, m := range envVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok {
			missing[m[1]] = struct{}{}
		}
	}
	if len(missing) > 0 {
		names := slices.Sorted(maps.Keys(missing))
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(names, ", "))
	}

	return strings.ReplaceAll(os.ExpandEnv(s), dollarSentinel, "$"), nil
}
