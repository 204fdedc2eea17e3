package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

// Options configures the launched player.
type Options struct {
	// Title is shown in the player window.
	Title string
	// Headers are sent with every media request.
	Headers map[string]string
}

// mpvOptions returns the mpv options, without the leading dashes, shared by every launcher.
// The player starts idle and paused; the session decides when to load and play.
// Only the IPC socket and window behaviour are set so the user's mpv.conf is respected.
func mpvOptions(socketPath string, opts Options) []string {
	title := sanitizeTitle(opts.Title)

	options := []string{
		"input-ipc-server=" + socketPath,
		"idle=yes",
		"keep-open=yes",
		"pause=yes",
		"force-window=yes",
	}
	if title != "" {
		options = append(options, "force-media-title="+title, "title="+title)
	}
	if header := headerFields(opts.Headers); header != "" {
		options = append(options, "http-header-fields="+header)
	}
	return options
}

func mpvArgs(socketPath string, opts Options) []string {
	args := []string{"--no-terminal", "--really-quiet"}
	for _, o := range mpvOptions(socketPath, opts) {
		args = append(args, "--"+o)
	}
	return args
}

// iinaArgs passes mpv options through iina-cli, which forwards --mpv-* flags to its core.
func iinaArgs(socketPath string, opts Options) []string {
	args := []string{"--keep-running", "--no-stdin"}
	for _, o := range mpvOptions(socketPath, opts) {
		args = append(args, "--mpv-"+o)
	}
	return args
}

// headerFields renders headers in a stable order as mpv's comma separated list.
func headerFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		// Commas separate fields.
		value := strings.ReplaceAll(headers[name], ",", "%2C")
		fields = append(fields, fmt.Sprintf("%s: %s", name, value))
	}
	return strings.Join(fields, ",")
}

// sanitizeMediaTarget validates that a link is safe to hand to the player.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Links must not look like flags.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
