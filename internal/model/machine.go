package model

// MachineType is either a washer or a dryer.
type MachineType string

const (
	MachineTypeWasher MachineType = "washer"
	MachineTypeDryer  MachineType = "dryer"
)

// Machine is the live state of a single unit. It is never persisted.
type Machine struct {
	Type          MachineType `json:"type"`
	Available     bool        `json:"available"`
	TimeRemaining int         `json:"timeRemaining"` // minutes
	StickerNumber int         `json:"stickerNumber,omitempty"`
	LicensePlate  string      `json:"licensePlate,omitempty"`
}
