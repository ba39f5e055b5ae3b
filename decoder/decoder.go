// Package decoder reverses the byte-pair substitution the catalog applies to source URLs.
//
// An obfuscated URL is a string of two-character hex groups, optionally prefixed
// with "--". Each group maps to a single URL character through a fixed table.
package decoder

import (
	"strings"

	"github.com/anisan-cli/anibridge/link"
	"github.com/anisan-cli/anibridge/log"
)

// Sentinel marks an obfuscated value.
const Sentinel = "--"

var table = map[string]string{
	"79": "A", "7a": "B", "7b": "C", "7c": "D", "7d": "E", "7e": "F", "7f": "G",
	"70": "H", "71": "I", "72": "J", "73": "K", "74": "L", "75": "M", "76": "N",
	"77": "O", "68": "P", "69": "Q", "6a": "R", "6b": "S", "6c": "T", "6d": "U",
	"6e": "V", "6f": "W", "60": "X", "61": "Y", "62": "Z",

	"59": "a", "5a": "b", "5b": "c", "5c": "d", "5d": "e", "5e": "f", "5f": "g",
	"50": "h", "51": "i", "52": "j", "53": "k", "54": "l", "55": "m", "56": "n",
	"57": "o", "48": "p", "49": "q", "4a": "r", "4b": "s", "4c": "t", "4d": "u",
	"4e": "v", "4f": "w", "40": "x", "41": "y", "42": "z",

	"08": "0", "09": "1", "0a": "2", "0b": "3", "0c": "4",
	"0d": "5", "0e": "6", "0f": "7", "00": "8", "01": "9",

	"15": "-", "16": ".", "67": "_", "46": "~", "02": ":", "17": "/", "07": "?",
	"1b": "#", "63": "[", "65": "]", "78": "@", "19": "!", "1c": "$", "1e": "&",
	"10": "(", "11": ")", "12": "*", "13": "+", "14": ",", "03": ";", "05": "=",
	"1d": "%",
}

const (
	clockPath = "/clock"
	clockJSON = "/clock.json"
)

// Decode turns an obfuscated source reference into a URL. Values that already
// carry a scheme pass through. Whenever decoding does not produce a URL with a
// scheme, raw is returned unchanged.
func Decode(raw string) string {
	return DecodeWithBase(raw, "")
}

// DecodeWithBase is Decode, except that a decoded root-relative path is joined to base.
func DecodeWithBase(raw, base string) (decoded string) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("decoder: recovered from %v", r)
			decoded = raw
		}
	}()

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || link.HasScheme(trimmed) {
		return raw
	}

	plain := normalizeClock(pairs(strings.TrimPrefix(trimmed, Sentinel)))
	if base != "" && strings.HasPrefix(plain, "/") && !strings.HasPrefix(plain, "//") {
		plain = strings.TrimRight(base, "/") + plain
	}

	if !link.HasScheme(plain) {
		return raw
	}
	return plain
}

// pairs maps every two-character group through the table. Unknown groups and a
// trailing odd character contribute nothing.
func pairs(s string) string {
	var b strings.Builder
	b.Grow(len(s) / 2)

	for i := 0; i+1 < len(s); i += 2 {
		b.WriteString(table[strings.ToLower(s[i:i+2])])
	}
	return b.String()
}

// normalizeClock rewrites the first "/clock" to "/clock.json" unless the JSON
// form is already there.
func normalizeClock(s string) string {
	if strings.Contains(s, clockJSON) || !strings.Contains(s, clockPath) {
		return s
	}
	return strings.Replace(s, clockPath, clockJSON, 1)
}

// Encode is the inverse of Decode for characters present in the table.
// Characters outside the table are dropped.
func Encode(plain string) string {
	var b strings.Builder
	b.WriteString(Sentinel)
	for _, r := range plain {
		if pair, ok := reverse[string(r)]; ok {
			b.WriteString(pair)
		}
	}
	return b.String()
}

var reverse = func() map[string]string {
	m := make(map[string]string, len(table))
	for pair, char := range table {
		m[char] = pair
	}
	return m
}()
