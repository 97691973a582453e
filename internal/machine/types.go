package machine

import "time"

// Machine is a registered device machine in one locale.
// This matches the machine_master table in migrations/20260301_090000_machine_master.up.sql.
//
// The natural key is (ID, LangCode): one machine identifier may carry a
// row per language.
type Machine struct {
	// Identity
	ID       string
	LangCode string

	// Business fields
	Name             string
	SerialNum        string
	MacAddress       string
	IPAddress        string
	MachineSpecID    string
	ValidityDateTime *time.Time
	IsActive         bool

	// IsDeleted is tri-state: nil means the flag was never written.
	// Read it through masterdata.StatusOf, never directly.
	IsDeleted *bool

	// Audit metadata
	CreatedBy       string
	CreatedDateTime time.Time
	UpdatedBy       *string
	UpdatedDateTime *time.Time
	DeletedDateTime *time.Time
}

// MachineHistory is the append-only audit row written alongside a Machine.
// Its key is (ID, LangCode, EffectDateTime).
type MachineHistory struct {
	Machine

	// EffectDateTime is when this version of the machine took effect.
	EffectDateTime time.Time
}

// View is the transport shape of a Machine.
type View struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	SerialNum        string     `json:"serialNum"`
	MacAddress       string     `json:"macAddress"`
	IPAddress        string     `json:"ipAddress"`
	MachineSpecID    string     `json:"machineSpecId"`
	LangCode         string     `json:"langCode"`
	IsActive         bool       `json:"isActive"`
	ValidityDateTime *time.Time `json:"validityDateTime,omitempty"`
}

// Request carries the caller-supplied fields of a new machine.
//
// ValidityDateTime is stored in UTC with microsecond precision.
type Request struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	SerialNum        string     `json:"serialNum"`
	MacAddress       string     `json:"macAddress"`
	IPAddress        string     `json:"ipAddress"`
	MachineSpecID    string     `json:"machineSpecId"`
	LangCode         string     `json:"langCode"`
	IsActive         bool       `json:"isActive"`
	ValidityDateTime *time.Time `json:"validityDateTime,omitempty"`
}
