package redfish

// Dell iDRAC resource paths. The exported settings paths double as the
// TargetSettingsURI values for configuration jobs.
const (
	SystemPath              = "/redfish/v1/Systems/System.Embedded.1"
	BIOSPath                = SystemPath + "/Bios"
	BIOSSettingsPath        = SystemPath + "/Bios/Settings"
	BootSourcesPath         = SystemPath + "/BootSources"
	BootSourcesSettingsPath = SystemPath + "/BootSources/Settings"
	JobsPath                = "/redfish/v1/Managers/iDRAC.Embedded.1/Jobs"
	ResetActionPath         = SystemPath + "/Actions/ComputerSystem.Reset"
)

// Boot sequence attribute keys, selected by the BIOS boot mode.
const (
	BootSeqKey     = "BootSeq"
	UefiBootSeqKey = "UefiBootSeq"
)

// BootDevice is one entry in the controller's boot sequence. The Index field
// is the device's position in the effective boot order and need not match the
// device's position in the reported array. ID and Enabled are round-tripped
// unchanged so a PATCH carries complete device objects back.
type BootDevice struct {
	ID      string `json:"Id,omitempty"`
	Name    string `json:"Name"`
	Enabled bool   `json:"Enabled"`
	Index   int    `json:"Index"`
}

// Job is a controller-side configuration job. The ID is opaque and extracted
// from the creation response; Message is the controller's current status text.
type Job struct {
	ID      string
	Message string
}

// ScheduledMessage is the job status message that signals the controller has
// accepted and scheduled a configuration job.
const ScheduledMessage = "Task successfully scheduled."

// PowerState is the reported power state of the target system. Only On and
// Off are modeled; transitional states are treated as "not yet Off" by
// pollers, and anything else is unrecoverable for the power orchestrator.
type PowerState string

const (
	PowerOn  PowerState = "On"
	PowerOff PowerState = "Off"
)

// ResetType selects the ComputerSystem.Reset action variant.
type ResetType string

const (
	ResetGracefulRestart ResetType = "GracefulRestart"
	ResetForceOff        ResetType = "ForceOff"
	ResetOn              ResetType = "On"
	ResetPxe             ResetType = "Pxe"
)
