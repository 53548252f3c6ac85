package resolver

import (
	"strconv"
	"strings"
)

func lastSegment(s string) string {
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		return s[i+1:]
	}
	return s
}

func sheetName(n int) string {
	return "Sheet" + strconv.Itoa(n)
}
