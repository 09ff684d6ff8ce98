package rate

import (
	"strconv"
	"strings"
)

// MajorRootPaths are the root resources whose IDs count towards the bucket
// key.
var MajorRootPaths = []string{"channels", "guilds", "webhooks"}

// ParseBucketKey reduces a request path to its rate limit bucket key,
// stripping out all minor snowflake parameters.
func ParseBucketKey(path string) string {
	path = strings.SplitN(path, "?", 2)[0]

	parts := strings.Split(path, "/")
	if len(parts) < 1 {
		return path
	}

	parts = parts[1:] // [0] is just "" since URL

	var skip int

	for _, part := range MajorRootPaths {
		if part == parts[0] {
			skip = 2
			break
		}
	}

	// Wipe all the IDs that don't belong to a major resource.
	for ; skip < len(parts); skip++ {
		if _, err := strconv.Atoi(parts[skip]); err == nil {
			parts[skip] = ""
		}
	}

	return "/" + strings.Join(parts, "/")
}
