package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// globalScope is the scope of the workspace-independent fraction token
	globalScope = "global"
)

// IsZeroAddress reports whether address is the mint/burn sentinel
func IsZeroAddress(address string) bool {
	return address == "" || NormalizeAddress(address) == ETHEREUM_ZERO_ADDRESS
}
