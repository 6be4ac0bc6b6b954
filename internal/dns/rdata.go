package dns

import (
	"fmt"
	"net"
)

// RData is the resource-data payload of a Record. Each concrete type below
// models one wire shape; Unknown carries anything this codec doesn't
// otherwise decode, as an opaque blob.
type RData interface {
	// QType identifies which Record.Read branch produced this value.
	QType() QType
	// String renders the value the way an event sink records it (an
	// address for A/AAAA, a target name for CNAME/SRV, empty for
	// Unknown).
	String() string
}

// ARecord is an IPv4 address record.
type ARecord struct {
	Addr net.IP
}

func (ARecord) QType() QType    { return QTypeA }
func (r ARecord) String() string { return r.Addr.String() }

// AAAARecord is an IPv6 address record.
type AAAARecord struct {
	Addr net.IP
}

func (AAAARecord) QType() QType     { return QTypeAAAA }
func (r AAAARecord) String() string { return r.Addr.String() }

// CNAMERecord is a canonical-name alias record.
type CNAMERecord struct {
	Target string
	// RDLength is the length captured on read; Record.Write reuses it
	// since re-deriving it would require re-encoding the target name.
	RDLength uint16
}

func (CNAMERecord) QType() QType     { return QTypeCNAME }
func (r CNAMERecord) String() string { return r.Target }

// SRVRecord is a service-locator record (RFC 2782).
type SRVRecord struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
	RDLength uint16
}

func (SRVRecord) QType() QType     { return QTypeSRV }
func (r SRVRecord) String() string { return r.Target }

// UnknownRecord carries any record type this codec doesn't decode further,
// as the raw rdlength bytes.
type UnknownRecord struct {
	Type QType
	Raw  []byte
}

func (r UnknownRecord) QType() QType  { return r.Type }
func (UnknownRecord) String() string  { return "" }

func readRData(buf *Buffer, qtype QType, rdlength uint16) (RData, error) {
	switch qtype {
	case QTypeA:
		raw, err := buf.ReadU32()
		if err != nil {
			return nil, err
		}
		ip := net.IPv4(byte(raw>>24), byte(raw>>16), byte(raw>>8), byte(raw))
		return ARecord{Addr: ip}, nil
	case QTypeAAAA:
		addr := make(net.IP, 16)
		for i := 0; i < 8; i++ {
			word, err := buf.ReadU16()
			if err != nil {
				return nil, err
			}
			addr[2*i] = byte(word >> 8)
			addr[2*i+1] = byte(word)
		}
		return AAAARecord{Addr: addr}, nil
	case QTypeCNAME:
		name, err := buf.ReadQName()
		if err != nil {
			return nil, err
		}
		return CNAMERecord{Target: name, RDLength: rdlength}, nil
	case QTypeSRV:
		priority, err := buf.ReadU16()
		if err != nil {
			return nil, err
		}
		weight, err := buf.ReadU16()
		if err != nil {
			return nil, err
		}
		port, err := buf.ReadU16()
		if err != nil {
			return nil, err
		}
		target, err := buf.ReadQName()
		if err != nil {
			return nil, err
		}
		return SRVRecord{Priority: priority, Weight: weight, Port: port, Target: target, RDLength: rdlength}, nil
	default:
		raw, err := buf.ReadRange(int(rdlength))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return UnknownRecord{Type: qtype, Raw: cp}, nil
	}
}

func writeRData(buf *Buffer, rdata RData) error {
	switch v := rdata.(type) {
	case ARecord:
		if err := buf.WriteU16(4); err != nil {
			return err
		}
		ip4 := v.Addr.To4()
		return buf.WriteRange(ip4)
	case AAAARecord:
		if err := buf.WriteU16(16); err != nil {
			return err
		}
		ip16 := v.Addr.To16()
		for i := 0; i < 8; i++ {
			if err := buf.WriteU16(uint16(ip16[2*i])<<8 | uint16(ip16[2*i+1])); err != nil {
				return err
			}
		}
		return nil
	case CNAMERecord:
		if err := buf.WriteU16(v.RDLength); err != nil {
			return err
		}
		return buf.WriteQName(v.Target)
	case SRVRecord:
		if err := buf.WriteU16(v.RDLength); err != nil {
			return err
		}
		if err := buf.WriteU16(v.Priority); err != nil {
			return err
		}
		if err := buf.WriteU16(v.Weight); err != nil {
			return err
		}
		if err := buf.WriteU16(v.Port); err != nil {
			return err
		}
		return buf.WriteQName(v.Target)
	case UnknownRecord:
		if err := buf.WriteU16(uint16(len(v.Raw))); err != nil {
			return err
		}
		return buf.WriteRange(v.Raw)
	default:
		return fmt.Errorf("dns: unsupported rdata %T", rdata)
	}
}
