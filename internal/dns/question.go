package dns

// Question is a single entry of a message's question section.
type Question struct {
	Name  string
	QType QType
	Class uint16
}

// NewQuestion builds a question with class IN.
func NewQuestion(name string, qtype QType) Question {
	return Question{Name: name, QType: qtype, Class: 1}
}

// Read decodes a question: qname, qtype, class.
func (q *Question) Read(buf *Buffer) error {
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
	q.Name = name
	q.QType = QType(qtype)
	q.Class = class
	return nil
}

// Write encodes a question. Class is always written back as 1 (IN),
// regardless of what was parsed.
func (q *Question) Write(buf *Buffer) error {
	if err := buf.WriteQName(q.Name); err != nil {
		return err
	}
	if err := buf.WriteU16(uint16(q.QType)); err != nil {
		return err
	}
	return buf.WriteU16(1)
}
