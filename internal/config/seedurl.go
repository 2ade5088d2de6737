package config

import (
	"strconv"
	"strings"
)

// SeedURL is one parsed seed node bootstrap entry.
type SeedURL struct {
	Host     string
	MetaPort int
	DataPort int
}

// String renders the entry back into the host:meta_port:data_port wire form.
func (u SeedURL) String() string {
	return u.Host + ":" + strconv.Itoa(u.MetaPort) + ":" + strconv.Itoa(u.DataPort)
}

// ParseSeedURL validates a single host:meta_port:data_port entry. Exactly
// three colon-separated fields are required, with ports in 1-65535. The host
// component is taken verbatim; resolving it is the resolver's concern.
func ParseSeedURL(raw string) (SeedURL, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 || parts[0] == "" {
		return SeedURL{}, &BadSeedURLError{Raw: raw}
	}
	metaPort, err := parsePort(parts[1])
	if err != nil {
		return SeedURL{}, &BadSeedURLError{Raw: raw}
	}
	dataPort, err := parsePort(parts[2])
	if err != nil {
		return SeedURL{}, &BadSeedURLError{Raw: raw}
	}
	return SeedURL{Host: parts[0], MetaPort: metaPort, DataPort: dataPort}, nil
}

// ParseSeedURLs splits a comma-separated seed node list, trims whitespace
// around every element, drops elements that are empty after trimming, and
// validates each remaining entry. Order is preserved and duplicates are kept:
// the list order is the bootstrap priority order.
func ParseSeedURLs(raw string) ([]string, error) {
	var urls []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, err := ParseSeedURL(entry); err != nil {
			return nil, err
		}
		urls = append(urls, entry)
	}
	return urls, nil
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if !validPort(port) {
		return 0, strconv.ErrRange
	}
	return port, nil
}
