// Package config provides user configuration management for phonelink.
//
// This package manages a YAML configuration file that overrides the
// built-in defaults for tool paths, port lists, vendor preferences, and
// mirroring behavior. The file lives in the OS-appropriate config
// directory:
//
//   - Linux: ~/.config/phonelink/config.yaml
//   - macOS: ~/.config/phonelink/config.yaml
//   - Windows: %LOCALAPPDATA%\phonelink\config.yaml
//
// An absent file is not an error: LoadSettings returns working defaults.
// Saves are atomic (write-to-temp plus rename) so a crash cannot leave a
// corrupt file behind.
package config
