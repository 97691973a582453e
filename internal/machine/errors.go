package machine

import (
	"errors"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// Codes are the stable error codes raised by the machine service.
var Codes = masterdata.Codes{
	Fetch: masterdata.ErrorCode{
		Code:    "KER-MSD-029",
		Message: "Error occurred while fetching Machines",
	},
	NotFound: masterdata.ErrorCode{
		Code:    "KER-MSD-030",
		Message: "Machine not Found",
	},
	Insert: masterdata.ErrorCode{
		Code:    "KER-MSD-031",
		Message: "Error occurred while inserting Machine details",
	},
}

// InvalidQuery is raised when a retrieval names an unknown predicate.
var InvalidQuery = masterdata.ErrorCode{
	Code:    "KER-MSD-999",
	Message: "Unsupported machine query",
}

// ErrMachineExists is wrapped into the access failure a store returns when
// an active row already holds the (id, lang_code) pair.
var ErrMachineExists = errors.New("machine: already exists for locale")
