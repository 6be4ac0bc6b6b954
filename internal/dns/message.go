package dns

// Message is a full DNS message: header plus the four ordered record
// groups.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// NewMessage returns a zero-value message with an empty header.
func NewMessage() *Message {
	return &Message{}
}

// Read decodes a message: the header first, whose four section counts
// then drive how many entries are parsed out of each group.
func (m *Message) Read(buf *Buffer) error {
	if err := m.Header.Read(buf); err != nil {
		return err
	}

	m.Questions = make([]Question, 0, m.Header.QDCount)
	for i := uint16(0); i < m.Header.QDCount; i++ {
		var q Question
		if err := q.Read(buf); err != nil {
			return err
		}
		m.Questions = append(m.Questions, q)
	}

	readGroup := func(n uint16) ([]Record, error) {
		recs := make([]Record, 0, n)
		for i := uint16(0); i < n; i++ {
			var rec Record
			if err := rec.Read(buf); err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		return recs, nil
	}

	var err error
	if m.Answers, err = readGroup(m.Header.ANCount); err != nil {
		return err
	}
	if m.Authorities, err = readGroup(m.Header.NSCount); err != nil {
		return err
	}
	if m.Additionals, err = readGroup(m.Header.ARCount); err != nil {
		return err
	}
	return nil
}

// Write normalizes the header's section counts from the actual group
// lengths, then encodes the header followed by each group in order.
func (m *Message) Write(buf *Buffer) error {
	m.Header.QDCount = uint16(len(m.Questions))
	m.Header.ANCount = uint16(len(m.Answers))
	m.Header.NSCount = uint16(len(m.Authorities))
	m.Header.ARCount = uint16(len(m.Additionals))

	if err := m.Header.Write(buf); err != nil {
		return err
	}
	for i := range m.Questions {
		if err := m.Questions[i].Write(buf); err != nil {
			return err
		}
	}
	for _, group := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		for i := range group {
			if err := group[i].Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
