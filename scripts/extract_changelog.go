// Command extract_changelog prints one version's section from a
// keep-a-changelog style file, for use as release notes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	path := flag.String("path", "CHANGELOG.md", "changelog file to read")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: extract_changelog [-path CHANGELOG.md] <version>")
		os.Exit(2)
	}
	version := strings.TrimPrefix(strings.TrimSpace(flag.Arg(0)), "v")
	if version == "" {
		fmt.Fprintln(os.Stderr, "version is required")
		os.Exit(2)
	}

	body, err := section(*path, version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(body)
}

// section returns the body between the version's heading and the next
// version heading. Both "## [1.2.3]" and "## 1.2.3" heading styles
// match.
func section(path, version string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var (
		out       []string
		inSection bool
	)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "## ") {
			if inSection {
				break
			}
			inSection = headingMatches(line, version)
			continue
		}
		if inSection {
			out = append(out, line)
		}
	}
	if !inSection {
		return "", fmt.Errorf("version %s not found in %s", version, path)
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n", nil
}

func headingMatches(line, version string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "## "))
	rest = strings.TrimPrefix(rest, "[")
	if !strings.HasPrefix(rest, version) {
		return false
	}
	rest = rest[len(version):]
	return rest == "" || rest[0] == ']' || rest[0] == ' ' || rest[0] == '-'
}
