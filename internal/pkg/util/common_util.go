package util

import "unicode/utf8"

// Truncate 按字节截断，不截断半个 UTF-8 字符
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
