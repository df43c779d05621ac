package testutil

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/slp"
)

// Handshake records what a client announced to the fake server.
type Handshake struct {
	Protocol  int32
	Host      string
	Port      uint16
	NextState int32
}

// SLPOptions controls the fake server's replies. StartSLPServer fills in
// the well-formed packet ids; StartSLPServerWith uses them as given.
type SLPOptions struct {
	StatusJSON     string
	StatusPacketID int32
	PongPacketID   int32
}

// SLPServer is a loopback Server List Ping responder.
type SLPServer struct {
	Host string
	Port uint16
	Addr string

	opts     SLPOptions
	listener net.Listener

	mu         sync.Mutex
	handshakes []Handshake
	wg         sync.WaitGroup
}

// StatusJSON renders a minimal status document.
func StatusJSON(version string, protocol int32, online, maxPlayers int64, description any) string {
	doc := map[string]any{
		"version":     map[string]any{"name": version, "protocol": protocol},
		"players":     map[string]any{"online": online, "max": maxPlayers},
		"description": description,
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

// StartSLPServer answers every status query with statusJSON until the test
// ends.
func StartSLPServer(t *testing.T, statusJSON string) *SLPServer {
	t.Helper()
	return StartSLPServerWith(t, SLPOptions{
		StatusJSON:     statusJSON,
		StatusPacketID: 0x00,
		PongPacketID:   0x01,
	})
}

// StartSLPServerWith starts a fake server with explicit reply options.
func StartSLPServerWith(t *testing.T, opts SLPOptions) *SLPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	host, portText, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.ParseUint(portText, 10, 16)
	s := &SLPServer{
		Host:     host,
		Port:     uint16(port),
		Addr:     ln.Addr().String(),
		opts:     opts,
		listener: ln,
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() {
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

// Handshakes returns every handshake received so far.
func (s *SLPServer) Handshakes() []Handshake {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Handshake(nil), s.handshakes...)
}

func (s *SLPServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			_ = s.handle(conn)
		}()
	}
}

func (s *SLPServer) handle(conn net.Conn) error {
	r := bufio.NewReader(conn)

	payload, err := readFrame(r)
	if err != nil {
		return err
	}
	hs, err := parseHandshake(payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.handshakes = append(s.handshakes, hs)
	s.mu.Unlock()

	if _, err := readFrame(r); err != nil {
		return err
	}
	if _, err := conn.Write(slp.Frame(s.opts.StatusPacketID, slp.AppendString(nil, s.opts.StatusJSON))); err != nil {
		return err
	}

	ping, err := readFrame(r)
	if err != nil {
		return err
	}
	if len(ping) < 9 {
		return errors.New("short ping")
	}
	_, err = conn.Write(slp.Frame(s.opts.PongPacketID, ping[1:9]))
	return err
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	n, err := slp.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New("negative frame length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func parseHandshake(payload []byte) (Handshake, error) {
	r := bytes.NewReader(payload)
	id, err := slp.ReadVarInt(r)
	if err != nil {
		return Handshake{}, err
	}
	if id != 0x00 {
		return Handshake{}, errors.New("not a handshake")
	}
	var hs Handshake
	if hs.Protocol, err = slp.ReadVarInt(r); err != nil {
		return Handshake{}, err
	}
	if hs.Host, err = slp.ReadString(r, 255); err != nil {
		return Handshake{}, err
	}
	var port [2]byte
	if _, err := io.ReadFull(r, port[:]); err != nil {
		return Handshake{}, err
	}
	hs.Port = binary.BigEndian.Uint16(port[:])
	if hs.NextState, err = slp.ReadVarInt(r); err != nil {
		return Handshake{}, err
	}
	return hs, nil
}
