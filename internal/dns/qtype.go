package dns

import "fmt"

// QType is a DNS query/record type. Well-known values get named constants;
// everything else round-trips through its numeric code.
type QType uint16

const (
	QTypeA     QType = 1
	QTypeCNAME QType = 5
	QTypeAAAA  QType = 28
	QTypeSRV   QType = 33
)

// String renders the well-known name, or UNKNOWN(n) for anything else.
func (t QType) String() string {
	switch t {
	case QTypeA:
		return "A"
	case QTypeCNAME:
		return "CNAME"
	case QTypeAAAA:
		return "AAAA"
	case QTypeSRV:
		return "SRV"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// IsAddressType reports whether t is one of the two types that participate
// in allow/deny policy (A, AAAA); every other type bypasses filtering.
func (t QType) IsAddressType() bool {
	return t == QTypeA || t == QTypeAAAA
}
