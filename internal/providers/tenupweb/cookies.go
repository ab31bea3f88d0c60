package tenupweb

import (
	"fmt"
	"net/http"
	"strings"
)

// Characters left untouched when encoding cookie values. The set keeps
// '%' so values that arrive already percent-encoded pass through intact.
const cookieValueSafe = "!#$%&'()*+-.^_`|~/:?@[]{}=,%"

// parseCookieHeader splits a raw "name=value; name=value" header into
// cookies, percent-encoding each value so the resulting header bytes are
// transport-safe.
func parseCookieHeader(header string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, chunk := range strings.Split(header, ";") {
		name, value, found := strings.Cut(chunk, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:  name,
			Value: encodeCookieValue(strings.TrimSpace(value)),
		})
	}
	return cookies
}

func encodeCookieValue(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(cookieValueSafe, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
