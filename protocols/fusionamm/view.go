package fusionamm

import "github.com/defistate/fusionamm-go/engine"

// PoolViewSchema is the decode contract for PoolView payloads carried through
// the generic state engine.
const PoolViewSchema engine.ProtocolSchema = "fusionamm/poolView@v1"

// PoolView is the fully enriched view of a single pool account, combining the
// decoded pool state with the tick arrays covering its traversable range.
type PoolView struct {
	Address    string      `json:"address"`
	TokenMintA string      `json:"tokenMintA"`
	TokenMintB string      `json:"tokenMintB"`
	DecimalsA  uint8       `json:"decimalsA"`
	DecimalsB  uint8       `json:"decimalsB"`
	Pool       *Pool       `json:"pool"`
	TickArrays []TickArray `json:"tickArrays"`
}
