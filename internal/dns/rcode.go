package dns

import "fmt"

// RCode is a DNS response code. The header's on-wire rcode field is only
// four bits, so only 0-15 round-trip through Header.Read/Write; the
// extended codes (16-23) exist for completeness and for callers that set
// rcode directly (e.g. component tests), preserving numeric fidelity for
// any value rather than collapsing unrecognized codes to NoError.
type RCode uint16

const (
	RCodeNoError   RCode = 0
	RCodeFormErr   RCode = 1
	RCodeServFail  RCode = 2
	RCodeNXDomain  RCode = 3
	RCodeNotImp    RCode = 4
	RCodeRefused   RCode = 5
	RCodeYXDomain  RCode = 6
	RCodeYXRRSet   RCode = 7
	RCodeNXRRSet   RCode = 8
	RCodeNotAuth   RCode = 9
	RCodeNotZone   RCode = 10
	RCodeDSOTypeNI RCode = 11
	RCodeBadVers   RCode = 16
	RCodeBadKey    RCode = 17
	RCodeBadTime   RCode = 18
	RCodeBadMode   RCode = 19
	RCodeBadName   RCode = 20
	RCodeBadAlg    RCode = 21
	RCodeBadTrunc  RCode = 22
	RCodeBadCookie RCode = 23
)

var rcodeNames = map[RCode]string{
	RCodeNoError:   "No Error",
	RCodeFormErr:   "Form Error",
	RCodeServFail:  "Server Failure",
	RCodeNXDomain:  "Non-Existent Domain",
	RCodeNotImp:    "Not Implemented",
	RCodeRefused:   "Query Refused",
	RCodeYXDomain:  "Name Exists when it should not",
	RCodeYXRRSet:   "RR Set Exists when it should not",
	RCodeNXRRSet:   "RR Set that should exist does not",
	RCodeNotAuth:   "Server Not Authoritative for zone",
	RCodeNotZone:   "Name not contained in zone",
	RCodeDSOTypeNI: "DSO-TYPE Not Implemented",
	RCodeBadVers:   "Bad OPT Version",
	RCodeBadKey:    "Key not recognized",
	RCodeBadTime:   "Signature out of time window",
	RCodeBadMode:   "Bad TKEY Mode",
	RCodeBadName:   "Duplicate key name",
	RCodeBadAlg:    "Algorithm not supported",
	RCodeBadTrunc:  "Bad Truncation",
	RCodeBadCookie: "Bad/missing Server Cookie",
}

// String renders the known name for rc, or a numeric fallback.
func (rc RCode) String() string {
	if name, ok := rcodeNames[rc]; ok {
		return name
	}
	return fmt.Sprintf("RCode(%d)", uint16(rc))
}
