package broadcast

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/net/ipv4"

	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// maxFrameSize keeps frames well below the smallest common MTU.
const maxFrameSize = 1024

// multicast is a Channel over UDP multicast. Every console instance on the
// device joins the same group; frames carry the channel name so unrelated
// traffic on the group is ignored. Frames are sent with a multicast TTL of 0
// and only frames from one of the host's own addresses are delivered.
type multicast struct {
	name   string
	origin string
	group  *net.UDPAddr
	local  map[string]struct{}

	recv *net.UDPConn
	send *net.UDPConn

	listeners *listeners
	logger    *logger.Logger
	wg        sync.WaitGroup
}

// NewMulticast joins the multicast group at groupAddress for the named
// channel. When the transport cannot be set up the failure is logged and a
// [Nop] channel is returned.
func NewMulticast(name, groupAddress string, log *logger.Logger) Channel {
	m, err := newMulticast(name, groupAddress, log)
	if err != nil {
		log.Warn().Err(err).
			Str("group", groupAddress).
			Msg("cross-instance broadcast disabled")
		return Nop()
	}
	return m
}

func newMulticast(name, groupAddress string, log *logger.Logger) (*multicast, error) {
	group, err := net.ResolveUDPAddr("udp4", groupAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve group: %w", ErrUnavailable, err)
	}
	if !group.IP.IsMulticast() {
		return nil, fmt.Errorf("%w: %s is not a multicast address", ErrUnavailable, groupAddress)
	}

	recv, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return nil, fmt.Errorf("%w: join group: %w", ErrUnavailable, err)
	}

	send, err := net.DialUDP("udp4", nil, group)
	if err != nil {
		recv.Close()
		return nil, fmt.Errorf("%w: open sender: %w", ErrUnavailable, err)
	}

	local, err := hostOnly(send)
	if err != nil {
		recv.Close()
		send.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	m := &multicast{
		name:      name,
		origin:    newOrigin(),
		group:     group,
		local:     local,
		recv:      recv,
		send:      send,
		listeners: newListeners(),
		logger:    log.Component("broadcast"),
	}

	m.wg.Add(1)
	go m.readLoop()

	m.logger.Info().
		Str("channel", name).
		Str("group", groupAddress).
		Str("origin", m.origin).
		Msg("joined broadcast group")

	return m, nil
}

// hostOnly keeps frames sent on conn on this host and returns the host's own
// addresses. A TTL of 0 still loops the datagram back to local members.
func hostOnly(conn *net.UDPConn) (map[string]struct{}, error) {
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(0); err != nil {
		return nil, fmt.Errorf("set multicast ttl: %w", err)
	}
	if err := pc.SetMulticastLoopback(true); err != nil {
		return nil, fmt.Errorf("enable multicast loopback: %w", err)
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("list host addresses: %w", err)
	}
	local := map[string]struct{}{net.IPv4(127, 0, 0, 1).String(): {}}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			local[ipNet.IP.String()] = struct{}{}
		}
	}
	return local, nil
}

func (m *multicast) Announce(topic string) {
	if m.listeners.isClosed() {
		return
	}

	frame, err := encodeFrame(Message{Channel: m.name, Topic: topic, Origin: m.origin})
	if err != nil {
		m.logger.Err(err).Str("topic", topic).Msg("failed to encode broadcast frame")
		return
	}

	if _, err := m.send.Write(frame); err != nil {
		m.logger.Warn().Err(err).Str("topic", topic).Msg("failed to send broadcast frame")
	}
}

func (m *multicast) OnAnnounce(handler func(topic string)) func() {
	return m.listeners.add(handler)
}

func (m *multicast) Close() error {
	if !m.listeners.close() {
		return nil
	}

	err := errors.Join(m.recv.Close(), m.send.Close())
	m.wg.Wait()
	return err
}

func (m *multicast) readLoop() {
	defer m.wg.Done()

	buf := make([]byte, maxFrameSize*2)
	for {
		n, src, err := m.recv.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || m.listeners.isClosed() {
				return
			}
			m.logger.Warn().Err(err).Msg("broadcast read failed")
			continue
		}
		m.handleFrame(src.IP, buf[:n])
	}
}

// handleFrame decodes one datagram from src and delivers it unless it came
// from another host, is malformed, belongs to another channel or is our own.
func (m *multicast) handleFrame(src net.IP, data []byte) {
	if _, ok := m.local[src.String()]; !ok {
		m.logger.Debug().Str("source", src.String()).Msg("dropping broadcast frame from another host")
		return
	}

	msg, err := decodeFrame(data)
	if err != nil {
		m.logger.Debug().Err(err).Msg("dropping undecodable broadcast frame")
		return
	}
	if msg.Channel != m.name {
		m.logger.Debug().Str("channel", msg.Channel).Msg("dropping frame for another channel")
		return
	}
	if msg.Origin == m.origin {
		return
	}

	m.listeners.deliver(msg.Topic)
}

func encodeFrame(msg Message) ([]byte, error) {
	frame, err := msgpack.Marshal(&msg)
	if err != nil {
		return nil, err
	}
	if len(frame) > maxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return frame, nil
}

func decodeFrame(data []byte) (Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
