package www

import (
	"math"
	"net/url"
	"strconv"
)

// queryInt reads an integer query parameter, falling back to defaultValue
// when it is missing, malformed or outside [lo, hi].
func queryInt(u *url.URL, key string, defaultValue, lo, hi int) int {
	i, err := strconv.Atoi(u.Query().Get(key))
	if err != nil || i < lo || i > hi {
		return defaultValue
	}
	return i
}

const noLimit = math.MaxInt
