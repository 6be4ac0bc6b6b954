package dns

// Record is one resource record: name, type, class, TTL, and typed rdata.
//
//	 0  1  2  3  4  5  6  7  8  9  0  1  2  3  4  5
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	/                      NAME                      /
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                      TYPE                      |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                     CLASS                      |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                      TTL                       |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|                   RDLENGTH                     |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--|
//	/                     RDATA                      /
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
type Record struct {
	Name     string
	QType    QType
	Class    uint16
	TTL      uint32
	RDLength uint16
	Data     RData
}

// Read decodes a full record, branching on qtype to pick the rdata shape.
func (r *Record) Read(buf *Buffer) error {
	name, err := buf.ReadQName()
	if err != nil {
		return err
	}
	qtype, err := buf.ReadU16()
	if err != nil {
		return err
	}
	class, err := buf.ReadU16()
	if err != nil {
		return err
	}
	ttl, err := buf.ReadU32()
	if err != nil {
		return err
	}
	rdlength, err := buf.ReadU16()
	if err != nil {
		return err
	}
	data, err := readRData(buf, QType(qtype), rdlength)
	if err != nil {
		return err
	}

	r.Name = name
	r.QType = QType(qtype)
	r.Class = class
	r.TTL = ttl
	r.RDLength = rdlength
	r.Data = data
	return nil
}

// Write encodes name/type/class/ttl followed by the rdlength and rdata the
// Data variant dictates: 4 for A, 16 for AAAA, the captured RDLength for
// CNAME/SRV (re-encoding the qname may not reproduce the on-wire length if
// it used compression when read), and len(Raw) for Unknown.
func (r *Record) Write(buf *Buffer) error {
	if err := buf.WriteQName(r.Name); err != nil {
		return err
	}
	if err := buf.WriteU16(uint16(r.Data.QType())); err != nil {
		return err
	}
	if err := buf.WriteU16(r.Class); err != nil {
		return err
	}
	if err := buf.WriteU32(r.TTL); err != nil {
		return err
	}
	return writeRData(buf, r.Data)
}
