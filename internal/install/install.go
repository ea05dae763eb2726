// Package install manages the shell-profile integration: an alias plus
// an auto-run line kept inside a marker-delimited block, so repeated
// installs and uninstalls stay idempotent.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sysreport-dev/sysreport/internal/logging"
)

var log = logging.L("install")

const (
	beginMarker = "# sysreport begin"
	endMarker   = "# sysreport end"
)

// legacyMarkers are block delimiters from earlier releases, cleaned up
// on every install and uninstall.
var legacyMarkers = [][2]string{
	{"# sysreport install", "# end sysreport install"},
}

// Installer writes and removes the profile block. Profiles and the
// binary path are fields so tests can point them at temp files.
type Installer struct {
	BinaryPath string
	Profiles   []string
}

// New resolves the default shell profiles for this OS. Unix manages
// .bashrc and .zshrc; Windows manages the PowerShell profile.
func New(binaryPath string) *Installer {
	return &Installer{
		BinaryPath: binaryPath,
		Profiles:   defaultProfiles(runtime.GOOS),
	}
}

func defaultProfiles(goos string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	if goos == "windows" {
		return []string{filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1")}
	}
	return []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".zshrc"),
	}
}

// Install writes the block into every managed profile, replacing any
// existing or legacy block. Profiles that do not exist yet are created.
func (i *Installer) Install() error {
	if len(i.Profiles) == 0 {
		return fmt.Errorf("no shell profiles to manage")
	}

	for _, profile := range i.Profiles {
		if err := i.installOne(profile); err != nil {
			return fmt.Errorf("install into %s: %w", profile, err)
		}
		log.Info("profile block installed", "profile", profile)
	}
	return nil
}

func (i *Installer) installOne(profile string) error {
	content, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	cleaned := stripBlocks(string(content))
	if cleaned != "" && !strings.HasSuffix(cleaned, "\n") {
		cleaned += "\n"
	}
	cleaned += i.block(profile)

	if err := os.MkdirAll(filepath.Dir(profile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(profile, []byte(cleaned), 0o644)
}

// Uninstall removes the block from every managed profile. With purge it
// also deletes the installed binary.
func (i *Installer) Uninstall(purge bool) error {
	for _, profile := range i.Profiles {
		content, err := os.ReadFile(profile)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("uninstall from %s: %w", profile, err)
		}

		cleaned := stripBlocks(string(content))
		if cleaned == string(content) {
			continue
		}
		if err := os.WriteFile(profile, []byte(cleaned), 0o644); err != nil {
			return fmt.Errorf("uninstall from %s: %w", profile, err)
		}
		log.Info("profile block removed", "profile", profile)
	}

	if purge {
		if err := os.Remove(i.BinaryPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove binary: %w", err)
		}
		log.Info("binary removed", "path", i.BinaryPath)
	}

	return nil
}

// block renders the profile block for the given profile's shell dialect.
func (i *Installer) block(profile string) string {
	if strings.HasSuffix(profile, ".ps1") {
		return strings.Join([]string{
			beginMarker,
			fmt.Sprintf("Set-Alias -Name sysreport -Value \"%s\"", i.BinaryPath),
			"sysreport",
			endMarker,
			"",
		}, "\n")
	}
	return strings.Join([]string{
		beginMarker,
		fmt.Sprintf("alias sysreport=\"%s\"", i.BinaryPath),
		"case $- in *i*) sysreport ;; esac",
		endMarker,
		"",
	}, "\n")
}

// stripBlocks removes the current block and any legacy block, markers
// included. Content outside the blocks is preserved byte for byte.
func stripBlocks(content string) string {
	out := stripBlock(content, beginMarker, endMarker)
	for _, m := range legacyMarkers {
		out = stripBlock(out, m[0], m[1])
	}
	return out
}

func stripBlock(content, begin, end string) string {
	lines := strings.Split(content, "\n")
	var kept []string

	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && trimmed == begin {
			inBlock = true
			continue
		}
		if inBlock {
			if trimmed == end {
				inBlock = false
			}
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
