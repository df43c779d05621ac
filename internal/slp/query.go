package slp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is used when no port is given and no SRV record exists.
	DefaultPort uint16 = 25565

	DefaultConnectTimeout = 3 * time.Second
	DefaultOpTimeout      = 5 * time.Second

	envForceIPv4 = "MC_FORCE_IPV4"
)

// Resolver is the subset of *net.Resolver used for candidate discovery.
type Resolver interface {
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Status is the parsed result of one Server List Ping.
type Status struct {
	Host            string
	Port            uint16
	Addr            string
	Connect         time.Duration
	RTT             time.Duration
	VersionName     string
	VersionProtocol int32
	PlayersOnline   int64
	PlayersMax      int64
	MOTD            string
}

type options struct {
	resolver       Resolver
	forceIPv4      bool
	connectTimeout time.Duration
	opTimeout      time.Duration
}

// Option customises a Query.
type Option func(*options)

// WithResolver overrides net.DefaultResolver.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithForceIPv4 drops IPv6 candidates when enabled.
func WithForceIPv4(enabled bool) Option {
	return func(o *options) {
		o.forceIPv4 = enabled
	}
}

// WithConnectTimeout bounds each individual dial.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// WithOpTimeout bounds each read or write on the established connection.
func WithOpTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.opTimeout = d
		}
	}
}

// ForceIPv4FromEnv reports whether MC_FORCE_IPV4 is set to 1.
func ForceIPv4FromEnv() bool {
	return strings.TrimSpace(os.Getenv(envForceIPv4)) == "1"
}

// Query pings host. A nil port triggers an SRV lookup for
// _minecraft._tcp.<host> before falling back to DefaultPort.
func Query(ctx context.Context, host string, port *uint16, opts ...Option) (*Status, error) {
	o := options{
		resolver:       net.DefaultResolver,
		forceIPv4:      ForceIPv4FromEnv(),
		connectTimeout: DefaultConnectTimeout,
		opTimeout:      DefaultOpTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("empty host")
	}

	candidates, err := resolveCandidates(ctx, o.resolver, host, port, o.forceIPv4)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	conn, addr, err := dialFirst(ctx, candidates, o.connectTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	connect := time.Since(start)

	_, portText, _ := net.SplitHostPort(addr)
	effective, _ := strconv.ParseUint(portText, 10, 16)

	status, err := exchange(conn, host, uint16(effective), o.opTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, err)
	}
	status.Host = host
	status.Port = uint16(effective)
	status.Addr = addr
	status.Connect = connect
	return status, nil
}

func resolveCandidates(ctx context.Context, r Resolver, host string, port *uint16, forceIPv4 bool) ([]string, error) {
	var candidates []string
	if port == nil {
		if _, records, err := r.LookupSRV(ctx, "minecraft", "tcp", host); err == nil && len(records) > 0 {
			best := records[0].Priority
			for _, rec := range records[1:] {
				if rec.Priority < best {
					best = rec.Priority
				}
			}
			for _, rec := range records {
				if rec.Priority != best {
					continue
				}
				target := strings.TrimSuffix(rec.Target, ".")
				ips, err := r.LookupIPAddr(ctx, target)
				if err != nil {
					continue
				}
				candidates = append(candidates, joinAddrs(ips, rec.Port, forceIPv4)...)
			}
		}
	}
	if len(candidates) == 0 {
		p := DefaultPort
		if port != nil {
			p = *port
		}
		ips, err := r.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", host, err)
		}
		candidates = joinAddrs(ips, p, forceIPv4)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("resolve %s: no usable addresses", host)
	}
	return candidates, nil
}

func joinAddrs(ips []net.IPAddr, port uint16, forceIPv4 bool) []string {
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if forceIPv4 && ip.IP.To4() == nil {
			continue
		}
		out = append(out, net.JoinHostPort(ip.String(), strconv.Itoa(int(port))))
	}
	return out
}

type dialResult struct {
	conn net.Conn
	addr string
	err  error
}

// dialFirst races a dial to every address and keeps the first success.
func dialFirst(ctx context.Context, addrs []string, timeout time.Duration) (net.Conn, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan dialResult, len(addrs))
	for _, addr := range addrs {
		go func(addr string) {
			d := net.Dialer{Timeout: timeout}
			conn, err := d.DialContext(ctx, "tcp", addr)
			results <- dialResult{conn: conn, addr: addr, err: err}
		}(addr)
	}

	errs := make([]error, 0, len(addrs))
	for received := 1; received <= len(addrs); received++ {
		r := <-results
		if r.err == nil {
			go drainLosers(results, len(addrs)-received)
			return r.conn, r.addr, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.addr, r.err))
	}
	return nil, "", fmt.Errorf("connect failed (tried %s): %w", strings.Join(addrs, ", "), errors.Join(errs...))
}

func drainLosers(results <-chan dialResult, n int) {
	for i := 0; i < n; i++ {
		if r := <-results; r.conn != nil {
			_ = r.conn.Close()
		}
	}
}

type deadlineConn interface {
	io.ReadWriter
	SetDeadline(time.Time) error
}

func exchange(conn deadlineConn, host string, port uint16, opTimeout time.Duration) (*Status, error) {
	reader := bufio.NewReader(conn)
	step := func() error {
		return conn.SetDeadline(time.Now().Add(opTimeout))
	}

	if err := step(); err != nil {
		return nil, err
	}
	if _, err := conn.Write(HandshakePacket(host, port)); err != nil {
		return nil, fmt.Errorf("write handshake: %w", err)
	}
	if err := step(); err != nil {
		return nil, err
	}
	if _, err := conn.Write(StatusRequestPacket()); err != nil {
		return nil, fmt.Errorf("write status request: %w", err)
	}

	if err := step(); err != nil {
		return nil, err
	}
	if err := ReadPacketHeader(reader, packetStatus); err != nil {
		return nil, fmt.Errorf("status response: %w", err)
	}
	raw, err := ReadString(reader, maxStatusBytes)
	if err != nil {
		return nil, fmt.Errorf("status response: %w", err)
	}
	status, err := ParseStatus([]byte(raw))
	if err != nil {
		return nil, err
	}

	if err := step(); err != nil {
		return nil, err
	}
	sent := time.Now()
	if _, err := conn.Write(PingPacket(sent.UnixMilli())); err != nil {
		return nil, fmt.Errorf("write ping: %w", err)
	}
	if err := step(); err != nil {
		return nil, err
	}
	if err := ReadPacketHeader(reader, packetPing); err != nil {
		return nil, fmt.Errorf("pong: %w", err)
	}
	var payload [8]byte
	if _, err := io.ReadFull(reader, payload[:]); err != nil {
		return nil, fmt.Errorf("pong payload: %w", err)
	}
	status.RTT = time.Since(sent)
	return status, nil
}

type statusDocument struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int32  `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int64 `json:"max"`
		Online int64 `json:"online"`
		Sample []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"sample"`
	} `json:"players"`
	Description json.RawMessage `json:"description"`
}

// ParseStatus decodes a status response JSON document.
func ParseStatus(raw []byte) (*Status, error) {
	var doc statusDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode status json: %w", err)
	}
	return &Status{
		VersionName:     doc.Version.Name,
		VersionProtocol: doc.Version.Protocol,
		PlayersOnline:   doc.Players.Online,
		PlayersMax:      doc.Players.Max,
		MOTD:            FlattenDescription(doc.Description),
	}, nil
}

// FlattenDescription turns a chat component (string, object or array) into
// plain text.
func FlattenDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var b strings.Builder
	flatten(&b, v)
	return b.String()
}

func flatten(b *strings.Builder, v any) {
	switch t := v.(type) {
	case string:
		b.WriteString(t)
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			b.WriteString(text)
		}
		if extra, ok := t["extra"].([]any); ok {
			for _, part := range extra {
				flatten(b, part)
			}
		}
	case []any:
		for _, part := range t {
			flatten(b, part)
		}
	}
}
