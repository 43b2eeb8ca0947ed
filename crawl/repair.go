package crawl

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// RepairURL rewrites a URL whose non-ASCII characters were mangled by a
// redirect. Text that was decoded as Latin-1 instead of UTF-8 is restored,
// whether it arrives raw or already percent-encoded, remaining non-ASCII path and query characters are percent-encoded as
// UTF-8, and an internationalized host is converted to its ASCII form.
// The result is deterministic and repairing it again returns it unchanged.
func RepairURL(raw string) string {
	fixed := fixMojibake(raw)

	u, err := url.Parse(fixed)
	if err != nil {
		return escapeNonASCII(fixed)
	}

	if host := u.Hostname(); host != "" {
		if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != host {
			if port := u.Port(); port != "" {
				u.Host = ascii + ":" + port
			} else {
				u.Host = ascii
			}
		}
	}

	if u.RawPath == "" || !isASCII(u.RawPath) {
		u.RawPath = ""
	}
	u.RawQuery = escapeNonASCII(u.RawQuery)

	return fixEscapedMojibake(u.String())
}

// fixEscapedMojibake applies fixMojibake to every run of percent-encoded
// non-ASCII bytes, e.g. "caf%C3%83%C2%A9" becomes "caf%C3%A9".
func fixEscapedMojibake(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		run, n := escapedRun(s[i:])
		if n == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		fixed := fixMojibake(string(run))
		if fixed == string(run) {
			b.WriteString(s[i : i+n])
		} else {
			b.WriteString(escapeNonASCII(fixed))
		}
		i += n
	}
	return b.String()
}

// escapedRun decodes the leading sequence of %XX escapes of bytes at or
// above 0x80. It returns the bytes and the length of text consumed.
func escapedRun(s string) ([]byte, int) {
	var run []byte
	n := 0
	for n+3 <= len(s) && s[n] == '%' {
		c, err := strconv.ParseUint(s[n+1:n+3], 16, 8)
		if err != nil || c < utf8.RuneSelf {
			break
		}
		run = append(run, byte(c))
		n += 3
	}
	return run, n
}

// fixMojibake reverses UTF-8 bytes that were read as Latin-1 characters,
// e.g. "cafÃ©" becomes "café". Strings that do not decode cleanly are
// returned unchanged.
func fixMojibake(s string) string {
	if isASCII(s) {
		return s
	}
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		b = append(b, byte(r))
	}
	if !utf8.Valid(b) || string(b) == s {
		return s
	}
	return string(b)
}

// escapeNonASCII percent-encodes every byte outside the printable ASCII range.
func escapeNonASCII(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || c >= 0x7F {
			b.WriteString("%")
			b.WriteByte("0123456789ABCDEF"[c>>4])
			b.WriteByte("0123456789ABCDEF"[c&0xF])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
