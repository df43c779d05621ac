package slp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// ProtocolVersion is sent in the handshake. Status queries accept any
	// value; 47 is understood by every server since 1.8.
	ProtocolVersion = 47

	stateStatus = 1

	packetHandshake = 0x00
	packetStatus    = 0x00
	packetPing      = 0x01

	maxVarIntBytes = 5
	maxStatusBytes = 1 << 20
)

// ErrVarIntTooBig is returned when a VarInt runs past five bytes.
var ErrVarIntTooBig = errors.New("varint too big")

// AppendVarInt appends the VarInt encoding of n to buf.
func AppendVarInt(buf []byte, n int32) []byte {
	u := uint32(n)
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if u == 0 {
			return buf
		}
	}
}

// ReadVarInt decodes one VarInt from r.
func ReadVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	for i := 0; ; i++ {
		if i >= maxVarIntBytes {
			return 0, ErrVarIntTooBig
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
}

// AppendString appends a VarInt length-prefixed UTF-8 string.
func AppendString(buf []byte, s string) []byte {
	buf = AppendVarInt(buf, int32(len(s)))
	return append(buf, s...)
}

// Frame prefixes a packet id and body with the VarInt packet length.
func Frame(id int32, body []byte) []byte {
	payload := AppendVarInt(make([]byte, 0, len(body)+maxVarIntBytes), id)
	payload = append(payload, body...)
	out := AppendVarInt(make([]byte, 0, len(payload)+maxVarIntBytes), int32(len(payload)))
	return append(out, payload...)
}

// HandshakePacket builds the framed handshake announcing a status query for
// host:port.
func HandshakePacket(host string, port uint16) []byte {
	body := AppendVarInt(nil, ProtocolVersion)
	body = AppendString(body, host)
	body = binary.BigEndian.AppendUint16(body, port)
	body = AppendVarInt(body, stateStatus)
	return Frame(packetHandshake, body)
}

// StatusRequestPacket is the empty status request.
func StatusRequestPacket() []byte {
	return Frame(packetStatus, nil)
}

// PingPacket carries an 8-byte payload the server echoes back.
func PingPacket(payload int64) []byte {
	return Frame(packetPing, binary.BigEndian.AppendUint64(nil, uint64(payload)))
}

// ReadPacketHeader reads a packet length and id and checks the id.
func ReadPacketHeader(r io.ByteReader, want int32) error {
	if _, err := ReadVarInt(r); err != nil {
		return fmt.Errorf("read packet length: %w", err)
	}
	id, err := ReadVarInt(r)
	if err != nil {
		return fmt.Errorf("read packet id: %w", err)
	}
	if id != want {
		return fmt.Errorf("unexpected packet id 0x%02x (expected 0x%02x)", id, want)
	}
	return nil
}

// ReadString reads a VarInt length-prefixed string of at most limit bytes.
func ReadString(r interface {
	io.Reader
	io.ByteReader
}, limit int) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if n < 0 || int(n) > limit {
		return "", fmt.Errorf("string length %d out of range", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string: %w", err)
	}
	return string(buf), nil
}
