package extract

import (
	"net"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

// deniedSuffixLabels are public suffix labels that carry no information
// about the target. Suffix labels outside this list ("dev", "internal",
// "cloud") are kept as domain tokens.
var deniedSuffixLabels = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "edu": {}, "gov": {}, "mil": {}, "int": {},
	"co": {}, "ac": {}, "or": {}, "ne": {}, "go": {},
	"io": {}, "me": {}, "us": {}, "uk": {}, "eu": {}, "de": {}, "fr": {}, "jp": {},
	"cn": {}, "ru": {}, "br": {}, "in": {}, "au": {}, "ca": {}, "nl": {}, "it": {},
	"es": {}, "info": {}, "biz": {},
}

// hostLabels returns the host parts that become domain tokens:
// the subdomain labels, the registrable label and any suffix labels that are
// not denied. An IPv4 host contributes its octets, which the IP filter
// drops when enabled. An IPv6 host contributes nothing: its hex groups are
// never words.
func hostLabels(target model.Target) []string {
	if target.IsIP() {
		if net.ParseIP(target.Host()).To4() == nil {
			return nil
		}
		return []string{target.Host()}
	}

	parts := make([]string, 0, 3)
	if sub := target.Subdomain(); sub != "" {
		parts = append(parts, sub)
	}
	if domain := target.Domain(); domain != "" {
		parts = append(parts, domain)
	}
	for label := range strings.SplitSeq(target.Suffix(), ".") {
		if _, denied := deniedSuffixLabels[label]; !denied && label != "" {
			parts = append(parts, label)
		}
	}
	return parts
}
