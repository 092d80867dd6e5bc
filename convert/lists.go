package convert

import "strings"

// DefaultBullet prefixes the items of a bulleted list.
const DefaultBullet = "•"

// ListResult is the output of the split-trim-join list tools.
type ListResult struct {
	Output    string `json:"output"`
	ItemCount int    `json:"item_count"`
}

// CommaToList puts every comma separated value of input on its own line.
// Values are trimmed and empty ones dropped.
func CommaToList(input string) ListResult {
	items := splitTrimmed(input, ",")
	return ListResult{Output: strings.Join(items, "\n"), ItemCount: len(items)}
}

// BulletOptions configures ToBulletedList.
type BulletOptions struct {
	// Bullet defaults to DefaultBullet when empty.
	Bullet string
}

// ToBulletedList prefixes every non-blank line of input with a bullet.
func ToBulletedList(input string, opts BulletOptions) ListResult {
	bullet := opts.Bullet
	if bullet == "" {
		bullet = DefaultBullet
	}

	items := splitTrimmed(normalizeNewlines(input), "\n")
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = bullet + " " + item
	}
	return ListResult{Output: strings.Join(lines, "\n"), ItemCount: len(items)}
}

func splitTrimmed(s, sep string) []string {
	var items []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
