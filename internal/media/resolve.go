package media

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNothingPlayable is returned when a playlist has no local audio entry.
var ErrNothingPlayable = errors.New("no playable entry")

// Resolve turns a command-line argument into an audio file path. A playlist
// resolves to its first entry that exists locally and can be decoded.
func Resolve(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", arg)
	}

	ext := strings.ToLower(filepath.Ext(arg))
	switch {
	case IsPlaylistExt(ext):
		entries, err := readPlaylist(arg)
		if err != nil {
			return "", err
		}
		for _, p := range entries {
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() && IsSupportedPath(p) {
				return p, nil
			}
		}
		return "", fmt.Errorf("%s: %w", arg, ErrNothingPlayable)
	case IsSupportedExt(ext):
		return arg, nil
	default:
		return "", fmt.Errorf("unsupported format %s (supported: %s)", ext, SupportedExtsList())
	}
}

// readPlaylist lists the entries of an .m3u/.m3u8/.pls file, relative ones
// resolved against the playlist's directory. Remote entries are skipped.
func readPlaylist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(path)
	pls := strings.EqualFold(filepath.Ext(path), ".pls")

	var entries []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\uFEFF"))
		if pls {
			line = plsFileValue(line)
		} else if strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Trim(line, `"`)
		if line == "" || strings.Contains(line, "://") {
			continue
		}
		entries = append(entries, resolveEntry(line, base))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	return entries, nil
}

// plsFileValue returns the value of a FileN= line, or "".
func plsFileValue(line string) string {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	key = strings.TrimSpace(key)
	n := strings.TrimPrefix(strings.ToLower(key), "file")
	if n == "" || len(n) == len(key) || strings.Trim(n, "0123456789") != "" {
		return ""
	}
	return strings.TrimSpace(val)
}

func resolveEntry(raw, base string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
