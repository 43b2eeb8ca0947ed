package main

import "fmt"

// shorten trims s to max characters for display, keeping its end, which
// holds the file name.
func shorten(s string, max int) string {
	switch {
	case max <= 0:
		return ""
	case len(s) <= max:
		return s
	case max < 4:
		return s[:max]
	}
	return "..." + s[len(s)-max+3:]
}

// formatBytes formats n in human-readable form.
func formatBytes(n int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case n >= GB:
		return fmt.Sprintf("%.1f GB", float64(n)/float64(GB))
	case n >= MB:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
