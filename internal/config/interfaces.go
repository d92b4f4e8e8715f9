// Package config loads the declarative interfaces document that maps host
// profiles to their desired boot interface ordering.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Host types with known interface orderings.
const (
	HostTypeForeman  = "foreman"
	HostTypeDirector = "director"
)

// HostTypes lists the known host types in classification order.
var HostTypes = []string{HostTypeForeman, HostTypeDirector}

// ValidHostType reports whether t names a known host type. Matching is
// case-insensitive to mirror the flag surface.
func ValidHostType(t string) bool {
	for _, known := range HostTypes {
		if strings.EqualFold(t, known) {
			return true
		}
	}
	return false
}

// LoadInterfaces reads and parses the interfaces YAML document. Keys are
// "<hostType>_<hostModel>_interfaces", values a comma-separated ordered
// interface list. All failures here are input failures and happen before any
// network call.
func LoadInterfaces(path string) (map[string]string, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interfaces file: %w", err)
	}

	definitions := map[string]string{}
	if err := yaml.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interfaces yaml: %w", err)
	}
	return definitions, nil
}

// HostModel derives the host model from a controller hostname: the last
// hyphen-delimited token of the first dot-delimited label. For
// "mgmt-r640.example.com" that is "r640".
func HostModel(host string) string {
	label := strings.SplitN(host, ".", 2)[0]
	parts := strings.Split(label, "-")
	return parts[len(parts)-1]
}

// InterfaceList resolves the desired interface ordering for a host type and
// model from the loaded definitions. A missing key is an input failure.
func InterfaceList(definitions map[string]string, hostType, hostModel string) ([]string, error) {
	key := fmt.Sprintf("%s_%s_interfaces", hostType, hostModel)
	value, ok := definitions[key]
	if !ok {
		return nil, fmt.Errorf("interfaces file has no %q entry", key)
	}
	return strings.Split(value, ","), nil
}
