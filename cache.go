package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/phobologic/testscan/internal/config"
	"github.com/phobologic/testscan/internal/discover"
)

const cacheHeader = "testscan-cache "

// cacheDigest hashes everything the output depends on: the settings that
// shape it and the path and content of every discovered file.
func cacheDigest(root string, files []discover.FileEntry, cfg *config.Config) (string, error) {
	h := xxhash.New()
	_, _ = h.WriteString(version)
	_, _ = h.WriteString("\x00" + cfg.Format)
	_, _ = h.WriteString("\x00" + strconv.FormatInt(cfg.MaxFileSize, 10))
	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(root, f.Path))
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", f.Path, err)
		}
		_, _ = h.WriteString("\x00" + f.Path + "\x00" + strconv.Itoa(len(content)) + "\x00")
		_, _ = h.Write(content)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// readCache returns the cached output if path holds one for digest.
func readCache(path, digest string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	header, body, ok := strings.Cut(string(data), "\n")
	if !ok || header != cacheHeader+digest {
		return "", false
	}
	return body, true
}

func writeCache(path, digest, output string) error {
	return os.WriteFile(path, []byte(cacheHeader+digest+"\n"+output), 0o644)
}
