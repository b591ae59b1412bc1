// Package jetstream holds helpers shared by JetStream consumers.
package jetstream

import (
	"strconv"

	"github.com/nats-io/nats.go"
)

// MessageID renders the stream and consumer sequences of a delivery for logs.
func MessageID(pair nats.SequencePair) string {
	return "seq:" + strconv.FormatUint(pair.Stream, 10) + "/" + strconv.FormatUint(pair.Consumer, 10)
}

// Sequence returns the MessageID of msg, or an empty string for messages that did not
// come from JetStream.
func Sequence(msg *nats.Msg) string {
	meta, err := msg.Metadata()
	if err != nil {
		return ""
	}
	return MessageID(meta.Sequence)
}
