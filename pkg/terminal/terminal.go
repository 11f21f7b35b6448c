package terminal

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// PaymentResult is the terminal's answer to a payment request.
type PaymentResult struct {
	Success bool
	Message string
}

// Terminal is the interface to the external card payment terminal.
//
// Callers must pair every successful Connect with a Disconnect, including on
// error paths. When IsManualMode reports true the engine skips terminal I/O
// entirely and trusts the operator's confirmation.
type Terminal interface {
	// IsManualMode returns true when no physical device is driven.
	IsManualMode() bool
	// Connect establishes a connection to the named device.
	Connect(device string) error
	// ProcessPayment asks the terminal to collect the given kuruş amount.
	ProcessPayment(amount int64) (*PaymentResult, error)
	// Disconnect releases the device connection. Safe to call when not connected.
	Disconnect()
}

// --- Network Terminal (dials TCP, e.g. 192.168.1.50:4100) ---

type networkTerminal struct {
	address string
	timeout time.Duration
	conn    net.Conn
}

// NewNetworkTerminal creates a terminal client that talks a line protocol
// over TCP. Address should include port, e.g. "192.168.1.50:4100".
func NewNetworkTerminal(address string) Terminal {
	return &networkTerminal{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (t *networkTerminal) IsManualMode() bool {
	return false
}

func (t *networkTerminal) Connect(device string) error {
	conn, err := net.DialTimeout("tcp", t.address, t.timeout)
	if err != nil {
		return fmt.Errorf("terminal: failed to connect to %s: %w", t.address, err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if _, err := fmt.Fprintf(conn, "HELLO %s\n", device); err != nil {
		conn.Close()
		return fmt.Errorf("terminal: handshake write to %s failed: %w", t.address, err)
	}

	t.conn = conn
	return nil
}

func (t *networkTerminal) ProcessPayment(amount int64) (*PaymentResult, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("terminal: not connected")
	}

	// The device blocks until the cardholder completes or cancels. No
	// read deadline: the checkout enforces its own timeout policy.
	_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	if _, err := fmt.Fprintf(t.conn, "PAY %d\n", amount); err != nil {
		return nil, fmt.Errorf("terminal: payment write failed: %w", err)
	}

	line, err := bufio.NewReader(t.conn).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("terminal: payment read failed: %w", err)
	}

	line = strings.TrimSpace(line)
	if ok, msg := parseReply(line); ok {
		return &PaymentResult{Success: true, Message: msg}, nil
	} else {
		return &PaymentResult{Success: false, Message: msg}, nil
	}
}

func parseReply(line string) (bool, string) {
	switch {
	case strings.HasPrefix(line, "OK"):
		return true, strings.TrimSpace(strings.TrimPrefix(line, "OK"))
	case strings.HasPrefix(line, "ERR"):
		return false, strings.TrimSpace(strings.TrimPrefix(line, "ERR"))
	default:
		return false, line
	}
}

func (t *networkTerminal) Disconnect() {
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
	}
}

// --- Manual Terminal (operator keys the payment on the device by hand) ---

type manualTerminal struct{}

// NewManualTerminal creates a terminal stand-in for shops where the card
// device is not wired to the register. Every payment is reported successful;
// the operator is the source of truth.
func NewManualTerminal() Terminal {
	return &manualTerminal{}
}

func (t *manualTerminal) IsManualMode() bool { return true }

func (t *manualTerminal) Connect(device string) error { return nil }

func (t *manualTerminal) ProcessPayment(amount int64) (*PaymentResult, error) {
	return &PaymentResult{Success: true, Message: "manual"}, nil
}

func (t *manualTerminal) Disconnect() {}

// --- Null Terminal (no card payments configured) ---

type nullTerminal struct{}

// NewNullTerminal creates a terminal that rejects every payment. Used when
// the shop has no card device at all, so card methods fail loudly instead of
// silently succeeding.
func NewNullTerminal() Terminal {
	return &nullTerminal{}
}

func (t *nullTerminal) IsManualMode() bool { return false }

func (t *nullTerminal) Connect(device string) error {
	return fmt.Errorf("terminal: no card terminal configured")
}

func (t *nullTerminal) ProcessPayment(amount int64) (*PaymentResult, error) {
	return nil, fmt.Errorf("terminal: no card terminal configured")
}

func (t *nullTerminal) Disconnect() {}

// NewTerminalFromConfig creates the appropriate Terminal based on type.
//
//	terminalType: "network", "manual", or "none"
//	address: TCP address for network terminals (e.g. "192.168.1.50:4100")
func NewTerminalFromConfig(terminalType, address string) (Terminal, error) {
	switch terminalType {
	case "network":
		if address == "" {
			return nil, fmt.Errorf("terminal: address is required for network terminal type")
		}
		return NewNetworkTerminal(address), nil
	case "manual":
		return NewManualTerminal(), nil
	case "none", "":
		return NewNullTerminal(), nil
	default:
		return nil, fmt.Errorf("terminal: unknown terminal type %q (use network, manual, or none)", terminalType)
	}
}
