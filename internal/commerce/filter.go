package commerce

import "strconv"

// Filter carries list-endpoint query values. Each store consumes only the
// keys it recognizes and ignores the rest; result order is not guaranteed.
type Filter map[string]string

func (f Filter) get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func (f Filter) getInt(key string) (int, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
