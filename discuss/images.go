package discuss

import "strings"

// NormalizeImageURLs splits a comma separated form value into trimmed, non-empty urls.
func NormalizeImageURLs(raw string) []string {
	urls := make([]string, 0)

	for url := range strings.SplitSeq(raw, ",") {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		urls = append(urls, url)
	}

	return urls
}
