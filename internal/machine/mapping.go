package machine

import "time"

// ToView projects a stored machine into its transport shape.
func ToView(m Machine) View {
	return View{
		ID:               m.ID,
		Name:             m.Name,
		SerialNum:        m.SerialNum,
		MacAddress:       m.MacAddress,
		IPAddress:        m.IPAddress,
		MachineSpecID:    m.MachineSpecID,
		LangCode:         m.LangCode,
		IsActive:         m.IsActive,
		ValidityDateTime: m.ValidityDateTime,
	}
}

func isDeleted(m Machine) *bool { return m.IsDeleted }

// storageTime converts t to the precision every store keeps: UTC,
// truncated to microseconds.
func storageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func storageTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := storageTime(*t)
	return &v
}

// newMachine builds the primary row for req, stamped with at. The
// validity time is brought to storage precision so every store returns
// the same value.
func newMachine(req Request, createdBy string, at time.Time) Machine {
	notDeleted := false
	return Machine{
		ID:               req.ID,
		LangCode:         req.LangCode,
		Name:             req.Name,
		SerialNum:        req.SerialNum,
		MacAddress:       req.MacAddress,
		IPAddress:        req.IPAddress,
		MachineSpecID:    req.MachineSpecID,
		ValidityDateTime: storageTimePtr(req.ValidityDateTime),
		IsActive:         req.IsActive,
		IsDeleted:        &notDeleted,
		CreatedBy:        createdBy,
		CreatedDateTime:  at,
	}
}

// newMachineHistory builds the history row for req. Both of its timestamps
// are at, the same value given to newMachine.
func newMachineHistory(req Request, createdBy string, at time.Time) MachineHistory {
	return MachineHistory{
		Machine:        newMachine(req, createdBy, at),
		EffectDateTime: at,
	}
}
