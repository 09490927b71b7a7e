package docscan

import (
	"regexp"
	"strings"
)

var (
	nrpLabeledRE = regexp.MustCompile(`(?i)\bnrp\b[\s.:]*([0-9]{5,10})`)
	digitRunRE   = regexp.MustCompile(`[0-9]{5,10}`)
)

// FindNRP pulls a service number out of OCR text. A digit run directly
// labeled "NRP" always wins; otherwise the first plausible standalone run
// is taken.
func FindNRP(text string) (string, bool) {
	if m := nrpLabeledRE.FindStringSubmatch(text); len(m) == 2 && plausibleNRP(m[1]) {
		return m[1], true
	}
	for _, cand := range digitRunRE.FindAllString(text, -1) {
		if plausibleNRP(cand) {
			return cand, true
		}
	}
	return "", false
}

// NRPFromFileName checks a file name like 31102456_bap.jpg for a leading
// service number, the convention used by the lampiran inbox.
func NRPFromFileName(name string) (string, bool) {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	sep := strings.IndexAny(base, "_-. ")
	if sep <= 0 {
		return "", false
	}
	cand := base[:sep]
	if plausibleNRP(cand) {
		return cand, true
	}
	return "", false
}

// plausibleNRP rejects runs that look like dates, phone numbers or ids:
// wrong length, leading zero, or all-identical digits.
func plausibleNRP(s string) bool {
	if len(s) < 5 || len(s) > 10 {
		return false
	}
	if s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	same := true
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			same = false
			break
		}
	}
	return !same
}
