package envelope

import (
	"github.com/faaskit/fn-observation/tracing"
)

// A QueueMessage is one inbound message from a queue trigger. Attributes
// carry the propagation headers; binary attribute values are ignored for
// context purposes.
type QueueMessage struct {
	MessageID   string
	Destination string
	Body        []byte
	Attributes  map[string]tracing.MessageAttribute
}

// A StreamRecord is one inbound record from a stream trigger. Headers arrive
// as a sequence of header groups with raw byte values, exactly as the
// transport delivers them.
type StreamRecord struct {
	RecordID   string
	StreamName string
	Partition  string
	Sequence   string
	Data       []byte
	Headers    []map[string][]byte
}
