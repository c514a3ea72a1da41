package dto

import "strings"

// Services are stored as a single comma-joined column.
const servicesSep = ","

// JoinServices packs a service list into its storage form.
func JoinServices(services []string) string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, servicesSep)
}

// SplitServices unpacks the storage form back into a list.
func SplitServices(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, servicesSep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
