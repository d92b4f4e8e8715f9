// Package bootorder reconciles a desired interface ordering against the
// controller's live boot device list.
package bootorder

import (
	"sort"

	"github.com/rackfish/rackfish/internal/redfish"
)

// SequenceKey selects the boot sequence attribute for the given BIOS boot
// mode: "Uefi" selects the UEFI sequence, anything else the legacy one.
func SequenceKey(bootMode string) string {
	if bootMode == "Uefi" {
		return redfish.UefiBootSeqKey
	}
	return redfish.BootSeqKey
}

// ComputePatch walks the desired interface names by position and reassigns
// the index of the first current device with that name when it differs.
// It returns the full device sequence and whether anything changed; an
// unchanged result is the benign no-op outcome, not an error.
//
// Matching is first-match by name: if the controller ever reports duplicate
// device names, later duplicates are never reassigned.
func ComputePatch(desired []string, current []redfish.BootDevice) ([]redfish.BootDevice, bool) {
	devices := make([]redfish.BootDevice, len(current))
	copy(devices, current)

	changed := false
	for i, name := range desired {
		for d := range devices {
			if devices[d].Name != name {
				continue
			}
			if devices[d].Index != i {
				devices[d].Index = i
				changed = true
			}
			break
		}
	}
	return devices, changed
}

// Profile is a named candidate ordering for classification.
type Profile struct {
	Name       string
	Interfaces []string
}

// Classify reports which candidate profile the current boot order matches.
// Devices are sorted by index and the first len(profile) names must equal the
// profile position-for-position. Profiles are tried in declared order; the
// first match wins. The second return is false when nothing matches.
func Classify(current []redfish.BootDevice, profiles []Profile) (string, bool) {
	ordered := SortedByIndex(current)

	for _, p := range profiles {
		if len(ordered) < len(p.Interfaces) {
			continue
		}
		match := true
		for i, name := range p.Interfaces {
			if ordered[i].Name != name {
				match = false
				break
			}
		}
		if match {
			return p.Name, true
		}
	}
	return "", false
}

// SortedByIndex returns a copy of devices ordered by their boot index.
func SortedByIndex(devices []redfish.BootDevice) []redfish.BootDevice {
	ordered := make([]redfish.BootDevice, len(devices))
	copy(ordered, devices)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})
	return ordered
}
